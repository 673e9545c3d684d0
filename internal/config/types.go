// Package config holds the in-memory VM configuration model that every
// menu operation edits and the invocation compiler consumes.
package config

import (
	"strings"

	"github.com/docker/go-units"
)

// DiskInterface is the guest bus a disk is attached to.
type DiskInterface string

const (
	InterfaceVirtio DiskInterface = "virtio"
	InterfaceSATA   DiskInterface = "sata"
	InterfaceSCSI   DiskInterface = "scsi"
)

// CacheMode is the host page cache policy for a disk.
type CacheMode string

const (
	CacheNone         CacheMode = "none"
	CacheWriteback    CacheMode = "writeback"
	CacheWritethrough CacheMode = "writethrough"
)

// DiskFormat is the image format passed to the hypervisor.
type DiskFormat string

const (
	FormatQCOW2 DiskFormat = "qcow2"
	FormatRaw   DiskFormat = "raw"
	FormatAuto  DiskFormat = "auto" // resolved from the file extension at compile time
)

// Firmware selects the boot firmware.
type Firmware string

const (
	FirmwareBIOS Firmware = "BIOS"
	FirmwareUEFI Firmware = "UEFI"
)

// NetworkMode selects one of the fixed network templates.
// The zero value means no network flags are emitted at all.
type NetworkMode string

const (
	NetworkUnset NetworkMode = ""
	NetworkNAT   NetworkMode = "NAT"
	NetworkTap   NetworkMode = "Tap"
	NetworkNone  NetworkMode = "None"
)

// Defaults applied when a field is unset.
const (
	DefaultRAM   = "2G"
	DefaultCores = 2
)

// DiskEntry is one disk of the ordered disk set.
type DiskEntry struct {
	Path      string
	Interface DiskInterface
	Cache     CacheMode
	Format    DiskFormat
}

// USBDevice identifies a host USB device selected for passthrough.
type USBDevice struct {
	VendorID    string // 4 hex digits
	ProductID   string // 4 hex digits
	Description string
	Bus         string // decimal, may carry leading zeros, optional
	Device      string // decimal, may carry leading zeros, optional
}

// VMConfig is the single mutable configuration record of a session.
type VMConfig struct {
	Disks []DiskEntry

	// LegacyDisk is the single-disk field kept for old profiles.
	// A non-empty Disks always takes precedence.
	LegacyDisk string

	ISOPath  string
	RAM      string
	Cores    int
	Firmware Firmware
	Network  NetworkMode
	KVM      bool
	USB      []USBDevice
	Binary   string

	// PendingSnapshotLoad names a snapshot to resume at the next launch.
	// It is consumed by exactly one launch attempt.
	PendingSnapshotLoad string
}

// New returns the empty configuration a session starts with.
func New() *VMConfig {
	return &VMConfig{
		Firmware: FirmwareBIOS,
	}
}

// Clone returns a deep copy of the configuration.
func (c *VMConfig) Clone() *VMConfig {
	out := *c
	out.Disks = append([]DiskEntry(nil), c.Disks...)
	out.USB = append([]USBDevice(nil), c.USB...)
	return &out
}

// BootDisk returns the disk snapshot operations target: the first disk of the
// set, or the legacy disk when the set is empty.
func (c *VMConfig) BootDisk() (string, bool) {
	if len(c.Disks) > 0 {
		return c.Disks[0].Path, true
	}
	if c.LegacyDisk != "" {
		return c.LegacyDisk, true
	}
	return "", false
}

// EffectiveRAM returns the RAM token, or DefaultRAM when unset.
func (c *VMConfig) EffectiveRAM() string {
	if strings.TrimSpace(c.RAM) == "" {
		return DefaultRAM
	}
	return c.RAM
}

// EffectiveCores returns the core count, or DefaultCores when unset.
func (c *VMConfig) EffectiveCores() int {
	if c.Cores <= 0 {
		return DefaultCores
	}
	return c.Cores
}

// SetRAM validates and stores a memory token such as "2G" or "512M".
func (c *VMConfig) SetRAM(token string) error {
	token = strings.TrimSpace(token)
	if err := ValidateRAM(token); err != nil {
		return err
	}
	c.RAM = token
	return nil
}

// SetCores validates and stores the vCPU count.
func (c *VMConfig) SetCores(n int) error {
	if n <= 0 {
		return Validation("cores", "must be > 0, got %d", n)
	}
	c.Cores = n
	return nil
}

// ValidateRAM checks that token is a positive memory size.
func ValidateRAM(token string) error {
	if token == "" {
		return Validation("ram", "value is required")
	}
	size, err := units.RAMInBytes(token)
	if err != nil {
		return Validation("ram", "%q is not a memory size (e.g. 2G, 512M)", token)
	}
	if size <= 0 {
		return Validation("ram", "must be > 0, got %q", token)
	}
	return nil
}

// Validate checks every enumerated and scalar field. Empty optional fields
// are accepted.
func (c *VMConfig) Validate() error {
	for i, d := range c.Disks {
		if err := d.Validate(); err != nil {
			return Validation("disks", "entry %d: %v", i, err)
		}
	}
	if c.RAM != "" {
		if err := ValidateRAM(c.RAM); err != nil {
			return err
		}
	}
	if c.Cores < 0 {
		return Validation("cores", "must be > 0, got %d", c.Cores)
	}
	if c.Firmware != "" && !c.Firmware.IsValid() {
		return Validation("firmware", "unknown value %q (must be BIOS or UEFI)", c.Firmware)
	}
	if !c.Network.IsValid() {
		return Validation("network", "unknown mode %q (must be NAT, Tap or None)", c.Network)
	}
	return nil
}

// IsValid reports whether i is a supported disk interface.
func (i DiskInterface) IsValid() bool {
	switch i {
	case InterfaceVirtio, InterfaceSATA, InterfaceSCSI:
		return true
	}
	return false
}

// IsValid reports whether m is a supported cache mode.
func (m CacheMode) IsValid() bool {
	switch m {
	case CacheNone, CacheWriteback, CacheWritethrough:
		return true
	}
	return false
}

// IsValid reports whether f is a supported disk format.
func (f DiskFormat) IsValid() bool {
	switch f {
	case FormatQCOW2, FormatRaw, FormatAuto:
		return true
	}
	return false
}

// IsValid reports whether f is a supported firmware.
func (f Firmware) IsValid() bool {
	return f == FirmwareBIOS || f == FirmwareUEFI
}

// IsValid reports whether m is a known network mode, including unset.
func (m NetworkMode) IsValid() bool {
	switch m {
	case NetworkUnset, NetworkNAT, NetworkTap, NetworkNone:
		return true
	}
	return false
}

// String renders the unset mode as "Not set".
func (m NetworkMode) String() string {
	if m == NetworkUnset {
		return "Not set"
	}
	return string(m)
}

// ParseNetworkMode accepts the mode names case-insensitively.
func ParseNetworkMode(s string) (NetworkMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "not set", "unset":
		return NetworkUnset, nil
	case "nat", "user":
		return NetworkNAT, nil
	case "tap":
		return NetworkTap, nil
	case "none":
		return NetworkNone, nil
	}
	return "", Validation("network", "unknown mode %q (must be NAT, Tap or None)", s)
}

// ParseFirmware accepts BIOS or UEFI case-insensitively. Empty means BIOS.
func ParseFirmware(s string) (Firmware, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "BIOS":
		return FirmwareBIOS, nil
	case "UEFI", "EFI":
		return FirmwareUEFI, nil
	}
	return "", Validation("firmware", "unknown value %q (must be BIOS or UEFI)", s)
}
