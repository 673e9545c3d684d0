package usb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Locator finds the block device backing a USB vendor/product pair.
// An empty path with a nil error means the device has no block device.
type Locator interface {
	BlockDevice(vendorID, productID string) (string, error)
}

// SysfsLocator walks /sys/block looking for a disk whose device ancestry
// carries matching idVendor and idProduct attributes.
type SysfsLocator struct {
	SysRoot string // defaults to /sys
	DevDir  string // defaults to /dev
}

// NewSysfsLocator returns a locator rooted at the host's sysfs.
func NewSysfsLocator() *SysfsLocator {
	return &SysfsLocator{SysRoot: "/sys", DevDir: "/dev"}
}

// BlockDevice returns /dev/<name> of the first disk (in name order) that
// belongs to the USB device vendorID:productID.
func (l *SysfsLocator) BlockDevice(vendorID, productID string) (string, error) {
	sysRoot := l.SysRoot
	if sysRoot == "" {
		sysRoot = "/sys"
	}
	devDir := l.DevDir
	if devDir == "" {
		devDir = "/dev"
	}

	root, err := filepath.EvalSymlinks(sysRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve sysfs root: %w", err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "block"))
	if err != nil {
		return "", fmt.Errorf("failed to read block devices: %w", err)
	}

	for _, entry := range entries {
		device, err := filepath.EvalSymlinks(filepath.Join(root, "block", entry.Name(), "device"))
		if err != nil {
			// virtual devices (loop, zram) have no device link
			continue
		}
		if matchesAncestor(root, device, vendorID, productID) {
			return filepath.Join(devDir, entry.Name()), nil
		}
	}
	return "", nil
}

// matchesAncestor climbs from dir towards root and reports whether the
// nearest directory with an idVendor attribute matches the pair.
func matchesAncestor(root, dir, vendorID, productID string) bool {
	for strings.HasPrefix(dir, root) && dir != root {
		vendor, err := readAttr(filepath.Join(dir, "idVendor"))
		if err == nil {
			product, _ := readAttr(filepath.Join(dir, "idProduct"))
			return strings.EqualFold(vendor, vendorID) && strings.EqualFold(product, productID)
		}
		dir = filepath.Dir(dir)
	}
	return false
}

func readAttr(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
