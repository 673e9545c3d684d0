// Package usb turns host USB device selections into hypervisor passthrough
// arguments. Mass-storage devices backed by a block device are attached as
// raw drives; everything else goes through an xHCI host controller.
package usb

import (
	"bufio"
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/jbweber/kiln/internal/config"
)

// idPattern matches the vendor:product pair of an enumeration line.
var idPattern = regexp.MustCompile(`\b([0-9a-fA-F]{4}):([0-9a-fA-F]{4})\b`)

// ParseDeviceLine parses one lsusb line:
//
//	Bus 001 Device 004: ID 0781:5567 SanDisk Corp. Cruzer Blade
//
// Bus is whitespace column 2 and device column 4 with its trailing colon
// removed; both are kept only when they are decimal. The description is the
// text after the vendor:product pair, or the whole line when nothing follows
// it. Lines without a vendor:product pair are not selectable and report false.
func ParseDeviceLine(line string) (config.USBDevice, bool) {
	line = strings.TrimSpace(line)
	loc := idPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return config.USBDevice{}, false
	}

	dev := config.USBDevice{
		VendorID:  strings.ToLower(line[loc[2]:loc[3]]),
		ProductID: strings.ToLower(line[loc[4]:loc[5]]),
	}

	if fields := strings.Fields(line); len(fields) > 3 {
		bus, device := fields[1], strings.TrimSuffix(fields[3], ":")
		if isDecimal(bus) && isDecimal(device) {
			dev.Bus, dev.Device = bus, device
		}
	}

	dev.Description = strings.TrimSpace(line[loc[1]:])
	if dev.Description == "" {
		dev.Description = line
	}
	return dev, true
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseDeviceList parses enumeration text, skipping lines that are not
// selectable.
func ParseDeviceList(text string) []config.USBDevice {
	var devices []config.USBDevice
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		if dev, ok := ParseDeviceLine(scanner.Text()); ok {
			devices = append(devices, dev)
		}
	}
	return devices
}

// Enumerator lists the USB devices currently attached to the host.
type Enumerator interface {
	Devices(ctx context.Context) ([]config.USBDevice, error)
}

// LsusbEnumerator enumerates devices by running lsusb.
type LsusbEnumerator struct {
	Binary string
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewLsusbEnumerator returns an enumerator that runs lsusb from PATH.
func NewLsusbEnumerator() *LsusbEnumerator {
	return &LsusbEnumerator{
		Binary: "lsusb",
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

// Devices runs lsusb and parses its output.
func (e *LsusbEnumerator) Devices(ctx context.Context) ([]config.USBDevice, error) {
	out, err := e.run(ctx, e.Binary)
	if err != nil {
		return nil, &config.ExternalToolFailure{Tool: e.Binary, Output: string(out), Err: err}
	}
	return ParseDeviceList(string(out)), nil
}
