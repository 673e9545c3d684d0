package config

import (
	"path/filepath"
	"strings"
)

// DiskEdit carries the mutable fields of a disk entry. Zero values leave the
// current setting unchanged.
type DiskEdit struct {
	Interface DiskInterface
	Cache     CacheMode
}

// AddDisk appends entry to the disk set, filling in defaults for empty
// interface, cache and format.
func (c *VMConfig) AddDisk(entry DiskEntry) error {
	entry.Path = strings.TrimSpace(entry.Path)
	if entry.Path == "" {
		return Validation("disk path", "path is required")
	}
	if entry.Interface == "" {
		entry.Interface = InterfaceVirtio
	}
	if entry.Cache == "" {
		entry.Cache = CacheNone
	}
	if entry.Format == "" {
		entry.Format = FormatAuto
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	c.Disks = append(c.Disks, entry)
	return nil
}

// EditDisk changes the interface and/or cache of the disk at index.
// Path and format are never touched.
func (c *VMConfig) EditDisk(index int, edit DiskEdit) error {
	if index < 0 || index >= len(c.Disks) {
		return c.indexError("edit disk", index)
	}
	if edit.Interface != "" && !edit.Interface.IsValid() {
		return Validation("interface", "unknown value %q (must be virtio, sata or scsi)", edit.Interface)
	}
	if edit.Cache != "" && !edit.Cache.IsValid() {
		return Validation("cache", "unknown value %q (must be none, writeback or writethrough)", edit.Cache)
	}
	if edit.Interface != "" {
		c.Disks[index].Interface = edit.Interface
	}
	if edit.Cache != "" {
		c.Disks[index].Cache = edit.Cache
	}
	return nil
}

// RemoveDisk deletes the disk at index. The remaining entries keep their
// relative order and are renumbered from 0.
func (c *VMConfig) RemoveDisk(index int) error {
	if index < 0 || index >= len(c.Disks) {
		return c.indexError("remove disk", index)
	}
	compacted := make([]DiskEntry, 0, len(c.Disks)-1)
	compacted = append(compacted, c.Disks[:index]...)
	compacted = append(compacted, c.Disks[index+1:]...)
	c.Disks = compacted
	return nil
}

func (c *VMConfig) indexError(op string, index int) error {
	if len(c.Disks) == 0 {
		return Precondition(op, "no disks configured")
	}
	return Precondition(op, "index %d out of range (0-%d)", index, len(c.Disks)-1)
}

// Validate checks the entry's path and enumerated fields.
func (d DiskEntry) Validate() error {
	if strings.TrimSpace(d.Path) == "" {
		return Validation("disk path", "path is required")
	}
	if !d.Interface.IsValid() {
		return Validation("interface", "unknown value %q (must be virtio, sata or scsi)", d.Interface)
	}
	if !d.Cache.IsValid() {
		return Validation("cache", "unknown value %q (must be none, writeback or writethrough)", d.Cache)
	}
	if !d.Format.IsValid() {
		return Validation("format", "unknown value %q (must be qcow2, raw or auto)", d.Format)
	}
	return nil
}

// InferFormat maps a file extension to a disk format:
// .qcow2 is qcow2, .img and .raw are raw, anything else is auto.
func InferFormat(path string) DiskFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".qcow2":
		return FormatQCOW2
	case ".img", ".raw":
		return FormatRaw
	default:
		return FormatAuto
	}
}

// ResolveFormat returns the format the hypervisor is told to use for entry.
// Explicit formats win; auto falls back to the extension and then to qcow2.
func ResolveFormat(entry DiskEntry) DiskFormat {
	if entry.Format != "" && entry.Format != FormatAuto {
		return entry.Format
	}
	if f := InferFormat(entry.Path); f != FormatAuto {
		return f
	}
	return FormatQCOW2
}
