package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/usb"
)

// DiskRecord is the persisted form of one DiskEntry.
type DiskRecord struct {
	Path   string `json:"path" yaml:"path"`
	Iface  string `json:"iface" yaml:"iface"`
	Cache  string `json:"cache" yaml:"cache"`
	Format string `json:"format" yaml:"format"`
}

// USBRecord is the persisted form of one selected USB device.
type USBRecord struct {
	Vendor      string `json:"vendor" yaml:"vendor"`
	Product     string `json:"product" yaml:"product"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Bus         string `json:"bus,omitempty" yaml:"bus,omitempty"`
	Device      string `json:"device,omitempty" yaml:"device,omitempty"`
}

// Record is one named entry of the profiles file.
type Record struct {
	Disk       string       `json:"disk" yaml:"disk"`
	Disks      []DiskRecord `json:"disks" yaml:"disks"`
	ISO        string       `json:"iso" yaml:"iso"`
	RAM        string       `json:"ram" yaml:"ram"`
	Cores      int          `json:"cores" yaml:"cores"`
	Firmware   string       `json:"firmware" yaml:"firmware"`
	NetInfo    string       `json:"net_info" yaml:"net_info"`
	KVM        bool         `json:"kvm" yaml:"kvm"`
	USBInfo    string       `json:"usb_info" yaml:"usb_info"`
	USBDevices []USBRecord  `json:"usb_devices,omitempty" yaml:"usb_devices,omitempty"`
	QemuBin    string       `json:"qemu_bin" yaml:"qemu_bin"`
}

// FromConfig flattens cfg into a record. The pending snapshot marker is not
// part of a profile.
func FromConfig(cfg *config.VMConfig) Record {
	r := Record{
		Disk:     cfg.LegacyDisk,
		Disks:    make([]DiskRecord, 0, len(cfg.Disks)),
		ISO:      cfg.ISOPath,
		RAM:      cfg.RAM,
		Cores:    cfg.Cores,
		Firmware: string(cfg.Firmware),
		NetInfo:  string(cfg.Network),
		KVM:      cfg.KVM,
		USBInfo:  usb.Summary(cfg.USB),
		QemuBin:  cfg.Binary,
	}
	for _, d := range cfg.Disks {
		r.Disks = append(r.Disks, DiskRecord{
			Path:   d.Path,
			Iface:  string(d.Interface),
			Cache:  string(d.Cache),
			Format: string(d.Format),
		})
	}
	for _, dev := range cfg.USB {
		r.USBDevices = append(r.USBDevices, USBRecord{
			Vendor:      dev.VendorID,
			Product:     dev.ProductID,
			Description: dev.Description,
			Bus:         dev.Bus,
			Device:      dev.Device,
		})
	}
	return r
}

// ToConfig rebuilds a configuration from the record. Disk fields left empty
// by older files take the DiskSet defaults.
func (r Record) ToConfig() (*config.VMConfig, error) {
	network, err := config.ParseNetworkMode(r.NetInfo)
	if err != nil {
		return nil, err
	}

	firmware, err := config.ParseFirmware(r.Firmware)
	if err != nil {
		return nil, err
	}

	cfg := &config.VMConfig{
		LegacyDisk: r.Disk,
		ISOPath:    r.ISO,
		RAM:        r.RAM,
		Cores:      r.Cores,
		Firmware:   firmware,
		Network:    network,
		KVM:        r.KVM,
		Binary:     r.QemuBin,
	}

	for _, d := range r.Disks {
		entry := config.DiskEntry{
			Path:      d.Path,
			Interface: config.DiskInterface(strings.ToLower(d.Iface)),
			Cache:     config.CacheMode(strings.ToLower(d.Cache)),
			Format:    config.DiskFormat(strings.ToLower(d.Format)),
		}
		if entry.Interface == "" {
			entry.Interface = config.InterfaceVirtio
		}
		if entry.Cache == "" {
			entry.Cache = config.CacheNone
		}
		if entry.Format == "" {
			entry.Format = config.FormatAuto
		}
		cfg.Disks = append(cfg.Disks, entry)
	}

	for _, u := range r.USBDevices {
		cfg.USB = append(cfg.USB, config.USBDevice{
			VendorID:    u.Vendor,
			ProductID:   u.Product,
			Description: u.Description,
			Bus:         u.Bus,
			Device:      u.Device,
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadRecordFile loads a single profile record from a YAML or JSON file,
// as written by `kiln profile show -o yaml`.
func ReadRecordFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if _, err := r.ToConfig(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &r, nil
}
