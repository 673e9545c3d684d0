// Package naming holds the identifier conventions kiln emits on the
// hypervisor command line and in exported domain definitions: drive ids,
// USB storage ids, the VM name and deterministic MAC addresses.
package naming

import (
	"crypto/sha1"
	"fmt"
	"regexp"
	"strings"
)

// DefaultVMName is the name passed to -name when launching.
const DefaultVMName = "kiln-vm"

// DriveID returns the drive id for the disk at 0-based index.
// Format: disk{index+1} (e.g. index 0 → "disk1")
func DriveID(index int) string {
	return fmt.Sprintf("disk%d", index+1)
}

// USBStorageID returns the drive id for a USB mass-storage passthrough.
// Format: usbstorage_{vendor}_{product}, lowercase hex
func USBStorageID(vendorID, productID string) string {
	return fmt.Sprintf("usbstorage_%s_%s", strings.ToLower(vendorID), strings.ToLower(productID))
}

// Unique returns base the first time it is seen and base_{n} afterwards,
// recording every returned id in seen.
func Unique(base string, seen map[string]int) string {
	n := seen[base]
	seen[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n+1)
}

var invalidDomainChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// DomainName turns a profile name into a libvirt-safe domain name.
// Format: kiln-{sanitized} (e.g. "Win 11" → "kiln-win-11")
func DomainName(profile string) string {
	s := strings.ToLower(strings.TrimSpace(profile))
	s = invalidDomainChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return DefaultVMName
	}
	return "kiln-" + s
}

// MACFromName calculates a deterministic MAC address from a name.
// Uses the locally administered prefix be:ef: followed by the first four
// bytes of the SHA-1 of name.
//
// Example: "kiln-vm" → be:ef:xx:xx:xx:xx, stable across runs
func MACFromName(name string) string {
	sum := sha1.Sum([]byte(name))
	return fmt.Sprintf("be:ef:%02x:%02x:%02x:%02x", sum[0], sum[1], sum[2], sum[3])
}
