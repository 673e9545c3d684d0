package config

import (
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()

	if len(cfg.Disks) != 0 {
		t.Errorf("Expected no disks, got %d", len(cfg.Disks))
	}
	if cfg.Firmware != FirmwareBIOS {
		t.Errorf("Expected BIOS firmware, got %q", cfg.Firmware)
	}
	if cfg.Network != NetworkUnset {
		t.Errorf("Expected unset network, got %q", cfg.Network)
	}
	if cfg.EffectiveRAM() != "2G" {
		t.Errorf("Expected default RAM 2G, got %q", cfg.EffectiveRAM())
	}
	if cfg.EffectiveCores() != 2 {
		t.Errorf("Expected default cores 2, got %d", cfg.EffectiveCores())
	}
}

func TestSetRAM(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{name: "gigabytes", token: "4G", want: "4G"},
		{name: "megabytes lowercase", token: "512m", want: "512m"},
		{name: "surrounding whitespace", token: "  8G ", want: "8G"},
		{name: "empty", token: "", wantErr: true},
		{name: "not a size", token: "lots", wantErr: true},
		{name: "zero", token: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.RAM = "1G"

			err := cfg.SetRAM(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetRAM(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
			if tt.wantErr {
				if !IsValidation(err) {
					t.Errorf("Expected ValidationError, got %T", err)
				}
				if cfg.RAM != "1G" {
					t.Errorf("RAM changed on failure: %q", cfg.RAM)
				}
				return
			}
			if cfg.RAM != tt.want {
				t.Errorf("RAM = %q, want %q", cfg.RAM, tt.want)
			}
		})
	}
}

func TestSetCores(t *testing.T) {
	cfg := New()
	if err := cfg.SetCores(4); err != nil {
		t.Fatalf("SetCores(4) failed: %v", err)
	}
	if cfg.Cores != 4 {
		t.Errorf("Cores = %d, want 4", cfg.Cores)
	}

	for _, n := range []int{0, -1} {
		if err := cfg.SetCores(n); !IsValidation(err) {
			t.Errorf("SetCores(%d) error = %v, want ValidationError", n, err)
		}
	}
	if cfg.Cores != 4 {
		t.Errorf("Cores changed on failure: %d", cfg.Cores)
	}
}

func TestBootDisk(t *testing.T) {
	tests := []struct {
		name   string
		cfg    VMConfig
		want   string
		wantOK bool
	}{
		{
			name: "empty",
			cfg:  VMConfig{},
		},
		{
			name:   "legacy only",
			cfg:    VMConfig{LegacyDisk: "/old.qcow2"},
			want:   "/old.qcow2",
			wantOK: true,
		},
		{
			name: "disk set wins over legacy",
			cfg: VMConfig{
				LegacyDisk: "/old.qcow2",
				Disks:      []DiskEntry{{Path: "/a.qcow2"}, {Path: "/b.qcow2"}},
			},
			want:   "/a.qcow2",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cfg.BootDisk()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("BootDisk() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     VMConfig
		wantErr bool
	}{
		{
			name: "empty config",
			cfg:  VMConfig{},
		},
		{
			name: "full config",
			cfg: VMConfig{
				Disks:    []DiskEntry{{Path: "/vm.qcow2", Interface: InterfaceSCSI, Cache: CacheWriteback, Format: FormatQCOW2}},
				RAM:      "4G",
				Cores:    4,
				Firmware: FirmwareUEFI,
				Network:  NetworkTap,
			},
		},
		{
			name:    "bad disk interface",
			cfg:     VMConfig{Disks: []DiskEntry{{Path: "/vm.qcow2", Interface: "ide", Cache: CacheNone, Format: FormatAuto}}},
			wantErr: true,
		},
		{
			name:    "bad ram",
			cfg:     VMConfig{RAM: "two gigs"},
			wantErr: true,
		},
		{
			name:    "negative cores",
			cfg:     VMConfig{Cores: -2},
			wantErr: true,
		},
		{
			name:    "bad firmware",
			cfg:     VMConfig{Firmware: "coreboot"},
			wantErr: true,
		},
		{
			name:    "bad network",
			cfg:     VMConfig{Network: "bridge"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("Expected ValidationError, got %T", err)
			}
		})
	}
}

func TestParseNetworkMode(t *testing.T) {
	tests := []struct {
		in      string
		want    NetworkMode
		wantErr bool
	}{
		{in: "nat", want: NetworkNAT},
		{in: "NAT", want: NetworkNAT},
		{in: "Tap", want: NetworkTap},
		{in: "none", want: NetworkNone},
		{in: "", want: NetworkUnset},
		{in: "macvtap", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNetworkMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNetworkMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseNetworkMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFirmware(t *testing.T) {
	if fw, err := ParseFirmware("uefi"); err != nil || fw != FirmwareUEFI {
		t.Errorf("ParseFirmware(uefi) = %q, %v", fw, err)
	}
	if fw, err := ParseFirmware(""); err != nil || fw != FirmwareBIOS {
		t.Errorf("ParseFirmware(\"\") = %q, %v", fw, err)
	}
	if _, err := ParseFirmware("openfirmware"); !IsValidation(err) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestClone(t *testing.T) {
	cfg := New()
	_ = cfg.AddDisk(DiskEntry{Path: "/a.qcow2"})
	cfg.USB = []USBDevice{{VendorID: "0781", ProductID: "5567"}}

	clone := cfg.Clone()
	clone.Disks[0].Path = "/changed.qcow2"
	clone.USB[0].VendorID = "ffff"

	if cfg.Disks[0].Path != "/a.qcow2" {
		t.Errorf("Clone shares disk storage with original")
	}
	if cfg.USB[0].VendorID != "0781" {
		t.Errorf("Clone shares USB storage with original")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation",
			err:  Validation("snapshot name", "name is required"),
			want: "invalid snapshot name: name is required",
		},
		{
			name: "precondition",
			err:  Precondition("delete snapshot", "no snapshots exist"),
			want: "cannot delete snapshot: no snapshots exist",
		},
		{
			name: "unsupported",
			err:  &UnsupportedOperationError{Op: "snapshots", Reason: "disk format is raw, qcow2 required"},
			want: "snapshots not supported: disk format is raw, qcow2 required",
		},
		{
			name: "missing resource",
			err:  &MissingResourceWarning{Resource: "UEFI firmware", Path: "/usr/share/OVMF/OVMF_CODE.fd", Fallback: "booting with BIOS"},
			want: "UEFI firmware not found at /usr/share/OVMF/OVMF_CODE.fd, booting with BIOS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
