package qemu

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/logging"
	"github.com/jbweber/kiln/internal/naming"
)

const (
	// DefaultBinary is used when the configuration names no binary.
	DefaultBinary = "qemu-system-x86_64"

	// DefaultFirmwarePath is the OVMF code image checked for UEFI boots.
	DefaultFirmwarePath = "/usr/share/OVMF/OVMF_CODE.fd"
)

// busNames maps disk interfaces to the -drive if= value.
var busNames = map[config.DiskInterface]string{
	config.InterfaceVirtio: "virtio",
	config.InterfaceSATA:   "ide",
	config.InterfaceSCSI:   "scsi",
}

// Invocation is a compiled argument vector. Args[0] is the binary.
type Invocation struct {
	Args     []string
	Warnings []error

	// SnapshotApplied is true when -loadvm was emitted.
	SnapshotApplied bool
}

// Binary returns the executable the invocation starts.
func (i *Invocation) Binary() string {
	if len(i.Args) == 0 {
		return ""
	}
	return i.Args[0]
}

// CommandLine renders the vector as a single shell-quoted line for display.
func (i *Invocation) CommandLine() string {
	quoted := make([]string, len(i.Args))
	for n, arg := range i.Args {
		quoted[n] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

// Compiler turns configurations into invocations.
type Compiler struct {
	probe        HostProbe
	firmwarePath string
	logger       *slog.Logger
}

// NewCompiler returns a compiler using probe for host checks. An empty
// firmwarePath selects DefaultFirmwarePath.
func NewCompiler(probe HostProbe, firmwarePath string, logger *slog.Logger) *Compiler {
	if firmwarePath == "" {
		firmwarePath = DefaultFirmwarePath
	}
	return &Compiler{
		probe:        probe,
		firmwarePath: firmwarePath,
		logger:       logging.Ensure(logger).With("component", "compiler"),
	}
}

// FirmwarePath returns the UEFI image the compiler looks for.
func (c *Compiler) FirmwarePath() string {
	return c.firmwarePath
}

// Compile builds the invocation for a launch attempt and clears
// cfg.PendingSnapshotLoad, whether or not the snapshot could be applied.
func (c *Compiler) Compile(cfg *config.VMConfig, usbArgs []string) *Invocation {
	inv := c.Preview(*cfg, usbArgs)
	if cfg.PendingSnapshotLoad != "" {
		c.logger.Debug("pending snapshot consumed", "tag", cfg.PendingSnapshotLoad, "applied", inv.SnapshotApplied)
		cfg.PendingSnapshotLoad = ""
	}
	return inv
}

// Preview builds the invocation without touching cfg.
func (c *Compiler) Preview(cfg config.VMConfig, usbArgs []string) *Invocation {
	inv := &Invocation{}

	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = DefaultBinary
	}
	inv.Args = append(inv.Args, binary)

	inv.Args = append(inv.Args,
		"-m", cfg.EffectiveRAM(),
		"-smp", strconv.Itoa(cfg.EffectiveCores()),
	)

	inv.Args = append(inv.Args, diskArgs(cfg)...)

	if cfg.ISOPath != "" {
		inv.Args = append(inv.Args, "-cdrom", cfg.ISOPath)
	}

	if cfg.Firmware == config.FirmwareUEFI {
		if c.probe != nil && c.probe.FileExists(c.firmwarePath) {
			inv.Args = append(inv.Args, "-drive", "if=pflash,format=raw,readonly=on,file="+escapeOption(c.firmwarePath))
		} else {
			warn := &config.MissingResourceWarning{
				Resource: "UEFI firmware",
				Path:     c.firmwarePath,
				Fallback: "booting with BIOS",
			}
			c.logger.Warn(warn.Error())
			inv.Warnings = append(inv.Warnings, warn)
		}
	}

	netArgs, err := NetworkArgs(cfg.Network)
	if err != nil {
		c.logger.Warn("network flags omitted", "mode", cfg.Network, "err", err)
		inv.Warnings = append(inv.Warnings, err)
	}
	inv.Args = append(inv.Args, netArgs...)

	if cfg.KVM {
		if c.probe != nil && c.probe.KVMSupported() {
			inv.Args = append(inv.Args, "-enable-kvm")
		} else {
			c.logger.Debug("kvm requested but not supported by host, omitting")
		}
	}

	inv.Args = append(inv.Args, usbArgs...)

	inv.Args = append(inv.Args, "-boot", "menu=on", "-name", naming.DefaultVMName)

	if cfg.PendingSnapshotLoad != "" {
		if len(cfg.Disks) > 0 {
			inv.Args = append(inv.Args, "-loadvm", cfg.PendingSnapshotLoad)
			inv.SnapshotApplied = true
		} else {
			inv.Warnings = append(inv.Warnings, fmt.Errorf("snapshot %q not loaded: no disk in the disk set", cfg.PendingSnapshotLoad))
		}
	}

	return inv
}

func diskArgs(cfg config.VMConfig) []string {
	if len(cfg.Disks) == 0 {
		if cfg.LegacyDisk != "" {
			return []string{"-hda", cfg.LegacyDisk}
		}
		return nil
	}

	args := make([]string, 0, 2*len(cfg.Disks))
	for i, d := range cfg.Disks {
		args = append(args, "-drive", DriveSpec(i, d))
	}
	return args
}

// DriveSpec renders the -drive value for the disk at index.
func DriveSpec(index int, d config.DiskEntry) string {
	iface := d.Interface
	if iface == "" {
		iface = config.InterfaceVirtio
	}
	bus, ok := busNames[iface]
	if !ok {
		bus = string(iface)
	}
	cache := d.Cache
	if cache == "" {
		cache = config.CacheNone
	}
	return fmt.Sprintf("file=%s,if=%s,cache=%s,format=%s,index=%d,id=%s",
		escapeOption(d.Path), bus, cache, config.ResolveFormat(d), index, naming.DriveID(index))
}

// escapeOption doubles commas so a value survives QEMU's option parser.
func escapeOption(v string) string {
	return strings.ReplaceAll(v, ",", ",,")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`!*?[]{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
