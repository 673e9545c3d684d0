package libvirt

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"libvirt.org/go/libvirtxml"

	"github.com/jbweber/kiln/internal/arch"
	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/logging"
	"github.com/jbweber/kiln/internal/naming"
	"github.com/jbweber/kiln/internal/qemu"
	"github.com/jbweber/kiln/internal/usb"
)

const (
	// EmulatorDir is prepended to a bare binary name to form <emulator>.
	EmulatorDir = "/usr/bin"
)

// domainNamespace seeds the name-derived domain UUIDs.
var domainNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/jbweber/kiln/domain"))

// targetBus maps disk interfaces to libvirt <target bus=>.
var targetBus = map[config.DiskInterface]string{
	config.InterfaceVirtio: "virtio",
	config.InterfaceSATA:   "sata",
	config.InterfaceSCSI:   "scsi",
}

// DomainOptions carries the host facts the export depends on.
type DomainOptions struct {
	// FirmwarePath is the OVMF image for UEFI domains. Empty lets libvirt
	// pick a firmware.
	FirmwarePath string

	// KVMAvailable selects a kvm domain when the config asks for KVM.
	KVMAvailable bool

	// USB holds the resolved attachments for cfg.USB.
	USB []usb.Attachment

	Logger *slog.Logger
}

// DomainUUID returns the stable UUID for a domain name.
func DomainUUID(name string) string {
	return uuid.NewSHA1(domainNamespace, []byte(name)).String()
}

// GenerateDomainXML generates libvirt domain XML from a VM configuration.
func GenerateDomainXML(name string, cfg *config.VMConfig, opts DomainOptions) (string, error) {
	domain, err := GenerateDomain(name, cfg, opts)
	if err != nil {
		return "", err
	}

	xml, err := domain.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal domain XML: %w", err)
	}
	return xml, nil
}

// GenerateDomain builds the libvirtxml domain for cfg.
func GenerateDomain(name string, cfg *config.VMConfig, opts DomainOptions) (*libvirtxml.Domain, error) {
	logger := logging.Ensure(opts.Logger).With("component", "libvirt")

	if strings.TrimSpace(name) == "" {
		name = naming.DefaultVMName
	}

	memBytes, err := units.RAMInBytes(cfg.EffectiveRAM())
	if err != nil || memBytes <= 0 {
		return nil, config.Validation("ram", "%q is not a memory size", cfg.EffectiveRAM())
	}

	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = qemu.DefaultBinary
	}
	emulator := binary
	if !filepath.IsAbs(emulator) {
		emulator = filepath.Join(EmulatorDir, emulator)
	}

	guestArch := arch.FromBinary(binary)
	if guestArch == "" {
		guestArch = arch.X86_64
	}

	domainType := "qemu"
	if cfg.KVM && opts.KVMAvailable {
		domainType = "kvm"
	}

	domain := &libvirtxml.Domain{
		Type: domainType,
		Name: name,
		UUID: DomainUUID(name),
		Memory: &libvirtxml.DomainMemory{
			Value: uint(memBytes / 1024),
			Unit:  "KiB",
		},
		VCPU: &libvirtxml.DomainVCPU{
			Placement: "static",
			Value:     uint(cfg.EffectiveCores()),
		},
		OS: &libvirtxml.DomainOS{
			Type: &libvirtxml.DomainOSType{
				Arch: guestArch.String(),
				Type: "hvm",
			},
			BootDevices: []libvirtxml.DomainBootDevice{
				{Dev: "hd"},
				{Dev: "cdrom"},
			},
			BootMenu: &libvirtxml.DomainBootMenu{
				Enable: "yes",
			},
		},
		Features: &libvirtxml.DomainFeatureList{
			ACPI: &libvirtxml.DomainFeature{},
			APIC: &libvirtxml.DomainFeatureAPIC{},
		},
		Clock: &libvirtxml.DomainClock{
			Offset: "utc",
		},
		OnPoweroff: "destroy",
		OnReboot:   "restart",
		OnCrash:    "destroy",
		Devices: &libvirtxml.DomainDeviceList{
			Emulator: emulator,
		},
	}

	if cfg.Firmware == config.FirmwareUEFI {
		if opts.FirmwarePath != "" {
			domain.OS.Loader = &libvirtxml.DomainLoader{
				Path:     opts.FirmwarePath,
				Readonly: "yes",
				Type:     "pflash",
			}
		} else {
			domain.OS.Firmware = "efi"
		}
	}

	targets := newTargetAllocator()
	scsi := false

	if len(cfg.Disks) > 0 {
		for _, d := range cfg.Disks {
			bus := targetBus[d.Interface]
			if bus == "" {
				bus = "virtio"
			}
			if bus == "scsi" {
				scsi = true
			}
			domain.Devices.Disks = append(domain.Devices.Disks, libvirtxml.DomainDisk{
				Device: "disk",
				Driver: &libvirtxml.DomainDiskDriver{
					Name:  "qemu",
					Type:  string(config.ResolveFormat(d)),
					Cache: string(d.Cache),
				},
				Source: &libvirtxml.DomainDiskSource{
					File: &libvirtxml.DomainDiskSourceFile{File: d.Path},
				},
				Target: &libvirtxml.DomainDiskTarget{
					Dev: targets.next(bus),
					Bus: bus,
				},
			})
		}
	} else if cfg.LegacyDisk != "" {
		domain.Devices.Disks = append(domain.Devices.Disks, libvirtxml.DomainDisk{
			Device: "disk",
			Driver: &libvirtxml.DomainDiskDriver{
				Name: "qemu",
				Type: string(config.ResolveFormat(config.DiskEntry{Path: cfg.LegacyDisk})),
			},
			Source: &libvirtxml.DomainDiskSource{
				File: &libvirtxml.DomainDiskSourceFile{File: cfg.LegacyDisk},
			},
			Target: &libvirtxml.DomainDiskTarget{
				Dev: targets.next("ide"),
				Bus: "ide",
			},
		})
	}

	if cfg.ISOPath != "" {
		domain.Devices.Disks = append(domain.Devices.Disks, libvirtxml.DomainDisk{
			Device: "cdrom",
			Driver: &libvirtxml.DomainDiskDriver{
				Name: "qemu",
				Type: "raw",
			},
			Source: &libvirtxml.DomainDiskSource{
				File: &libvirtxml.DomainDiskSourceFile{File: cfg.ISOPath},
			},
			Target: &libvirtxml.DomainDiskTarget{
				Dev: targets.next("sata"),
				Bus: "sata",
			},
			ReadOnly: &libvirtxml.DomainDiskReadOnly{},
		})
	}

	if scsi {
		domain.Devices.Controllers = append(domain.Devices.Controllers, libvirtxml.DomainController{
			Type:  "scsi",
			Model: "virtio-scsi",
		})
	}

	if iface := networkInterface(cfg.Network, name); iface != nil {
		domain.Devices.Interfaces = append(domain.Devices.Interfaces, *iface)
	}

	for _, att := range opts.USB {
		switch att.Mode {
		case usb.AttachStorage:
			domain.Devices.Disks = append(domain.Devices.Disks, libvirtxml.DomainDisk{
				Device: "disk",
				Driver: &libvirtxml.DomainDiskDriver{
					Name: "qemu",
					Type: "raw",
				},
				Source: &libvirtxml.DomainDiskSource{
					Block: &libvirtxml.DomainDiskSourceBlock{Dev: att.BlockDevice},
				},
				Target: &libvirtxml.DomainDiskTarget{
					Dev: targets.next("usb"),
					Bus: "usb",
				},
			})
		default:
			hostdev, ok := usbHostdev(att.Device)
			if !ok {
				logger.Warn("skipping USB device without bus/device address",
					"vendor", att.Device.VendorID, "product", att.Device.ProductID)
				continue
			}
			domain.Devices.Hostdevs = append(domain.Devices.Hostdevs, hostdev)
		}
	}

	domain.Devices.Serials = []libvirtxml.DomainSerial{
		{
			Source: &libvirtxml.DomainChardevSource{
				Pty: &libvirtxml.DomainChardevSourcePty{},
			},
			Target: &libvirtxml.DomainSerialTarget{
				Port: func() *uint { p := uint(0); return &p }(),
			},
		},
	}
	domain.Devices.Graphics = []libvirtxml.DomainGraphic{
		{VNC: &libvirtxml.DomainGraphicVNC{Port: -1, AutoPort: "yes"}},
	}

	logger.Debug("generated domain", "name", name, "type", domainType, "disks", len(domain.Devices.Disks))
	return domain, nil
}

// networkInterface mirrors the QEMU network templates. NAT maps to user-mode
// networking with an e1000 NIC; Tap maps to an unmanaged ethernet interface
// on tap0.
func networkInterface(mode config.NetworkMode, name string) *libvirtxml.DomainInterface {
	mac := &libvirtxml.DomainInterfaceMAC{Address: naming.MACFromName(name)}

	switch mode {
	case config.NetworkNAT:
		return &libvirtxml.DomainInterface{
			MAC: mac,
			Source: &libvirtxml.DomainInterfaceSource{
				User: &libvirtxml.DomainInterfaceSourceUser{},
			},
			Model: &libvirtxml.DomainInterfaceModel{Type: "e1000"},
		}
	case config.NetworkTap:
		return &libvirtxml.DomainInterface{
			MAC: mac,
			Source: &libvirtxml.DomainInterfaceSource{
				Ethernet: &libvirtxml.DomainInterfaceSourceEthernet{},
			},
			Target: &libvirtxml.DomainInterfaceTarget{
				Dev:     qemu.TapInterface,
				Managed: "no",
			},
			Model: &libvirtxml.DomainInterfaceModel{Type: "virtio"},
		}
	}
	return nil
}

// usbHostdev addresses a device by bus and device number. libvirt needs both.
func usbHostdev(dev config.USBDevice) (libvirtxml.DomainHostdev, bool) {
	bus, err := strconv.ParseUint(dev.Bus, 10, 32)
	if err != nil {
		return libvirtxml.DomainHostdev{}, false
	}
	device, err := strconv.ParseUint(dev.Device, 10, 32)
	if err != nil {
		return libvirtxml.DomainHostdev{}, false
	}
	b, d := uint(bus), uint(device)

	return libvirtxml.DomainHostdev{
		Managed: "yes",
		SubsysUSB: &libvirtxml.DomainHostdevSubsysUSB{
			Source: &libvirtxml.DomainHostdevSubsysUSBSource{
				Address: &libvirtxml.DomainAddressUSB{
					Bus:    &b,
					Device: &d,
				},
			},
		},
	}, true
}

// targetAllocator hands out vda, vdb, ... for virtio and sda, sdb, ... for
// the buses that share the sd namespace.
type targetAllocator struct {
	counts map[string]int
}

func newTargetAllocator() *targetAllocator {
	return &targetAllocator{counts: make(map[string]int)}
}

func (a *targetAllocator) next(bus string) string {
	prefix := "sd"
	switch bus {
	case "virtio":
		prefix = "vd"
	case "ide":
		prefix = "hd"
	}
	n := a.counts[prefix]
	a.counts[prefix] = n + 1
	return prefix + driveLetters(n)
}

// driveLetters renders 0 as a, 25 as z, 26 as aa.
func driveLetters(n int) string {
	s := ""
	for {
		s = string(rune('a'+n%26)) + s
		n = n/26 - 1
		if n < 0 {
			return s
		}
	}
}
