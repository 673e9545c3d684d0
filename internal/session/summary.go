package session

import (
	"fmt"
	"strings"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/qemu"
	"github.com/jbweber/kiln/internal/usb"
)

// Setting is one labelled line of the configuration summary.
type Setting struct {
	Label string
	Value string
}

// Summary describes the current configuration for the menu header.
func (s *Session) Summary() []Setting {
	cfg := s.cfg

	disks := "Not selected"
	switch {
	case len(cfg.Disks) > 0:
		parts := make([]string, 0, len(cfg.Disks))
		for i, d := range cfg.Disks {
			parts = append(parts, fmt.Sprintf("[%d] %s (%s, %s, %s)", i, d.Path, d.Interface, d.Cache, config.ResolveFormat(d)))
		}
		disks = strings.Join(parts, "; ")
	case cfg.LegacyDisk != "":
		disks = cfg.LegacyDisk + " (legacy)"
	}

	iso := cfg.ISOPath
	if iso == "" {
		iso = "None"
	}
	kvm := "Disabled"
	if cfg.KVM {
		kvm = "Enabled"
	}
	binary := cfg.Binary
	if binary == "" {
		binary = qemu.DefaultBinary
	}

	settings := []Setting{
		{Label: "Disks", Value: disks},
		{Label: "ISO", Value: iso},
		{Label: "RAM", Value: cfg.EffectiveRAM()},
		{Label: "Cores", Value: fmt.Sprintf("%d", cfg.EffectiveCores())},
		{Label: "Firmware", Value: string(cfg.Firmware)},
		{Label: "Network", Value: cfg.Network.String()},
		{Label: "KVM", Value: kvm},
		{Label: "USB", Value: usb.Summary(cfg.USB)},
		{Label: "Binary", Value: binary},
	}
	if cfg.PendingSnapshotLoad != "" {
		settings = append(settings, Setting{Label: "Load snapshot", Value: cfg.PendingSnapshotLoad})
	}
	return settings
}
