package output

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/jbweber/kiln/internal/config"
)

// TableFormatter formats profiles as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatProfile formats a single profile as a table row.
func (f *TableFormatter) FormatProfile(e Entry) (string, error) {
	return f.FormatProfileList([]Entry{e})
}

// FormatProfileList formats profiles as a table.
func (f *TableFormatter) FormatProfileList(entries []Entry) (string, error) {
	if len(entries) == 0 {
		return "No profiles found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tBOOT DISK\tDISKS\tRAM\tCORES\tFIRMWARE\tNETWORK\tKVM\tUSB")
	}

	for _, e := range entries {
		r := e.Record

		boot := "-"
		disks := len(r.Disks)
		switch {
		case disks > 0:
			boot = filepath.Base(r.Disks[0].Path)
		case r.Disk != "":
			boot = filepath.Base(r.Disk)
			disks = 1
		}

		ram := r.RAM
		if ram == "" {
			ram = config.DefaultRAM
		}
		cores := r.Cores
		if cores <= 0 {
			cores = config.DefaultCores
		}
		firmware := r.Firmware
		if firmware == "" {
			firmware = string(config.FirmwareBIOS)
		}
		network := r.NetInfo
		if network == "" {
			network = config.NetworkUnset.String()
		}
		kvm := "no"
		if r.KVM {
			kvm = "yes"
		}
		usb := "-"
		if n := len(r.USBDevices); n > 0 {
			usb = fmt.Sprintf("%d", n)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			e.Name, boot, disks, ram, cores, firmware, network, kvm, usb)
	}

	_ = w.Flush()
	return buf.String(), nil
}
