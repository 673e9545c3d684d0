package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/docker/go-units"

	"github.com/jbweber/kiln/internal/config"
)

// SelectDisk appends an existing image to the disk set. The format is
// inferred from the extension; a disagreement with the file's magic bytes is
// reported as a warning and the inferred value is kept.
func (s *Session) SelectDisk(ctx context.Context, path string) (Result, error) {
	var res Result

	path = strings.TrimSpace(path)
	if path == "" {
		return res, config.Validation("disk path", "no file selected")
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return res, config.Validation("disk path", "%s does not exist", path)
	}
	if err != nil {
		return res, err
	}
	if info.IsDir() {
		return res, config.Validation("disk path", "%s is a directory", path)
	}

	format := config.InferFormat(path)
	if err := s.cfg.AddDisk(config.DiskEntry{Path: path, Format: format}); err != nil {
		return res, err
	}
	index := len(s.cfg.Disks) - 1
	res.info("Disk %d: %s (format %s)", index, path, format)

	s.inspectDisk(ctx, &res, path, index)
	return res, nil
}

// inspectDisk adds format and boot sector warnings for a newly selected
// disk. Inspection failures never undo the selection.
func (s *Session) inspectDisk(ctx context.Context, res *Result, path string, index int) {
	if s.deps.Media != nil {
		detected, mismatch, err := s.deps.Media.FormatMismatch(path)
		switch {
		case err != nil:
			s.logger.Debug("format detection failed", "path", path, "err", err)
		case mismatch:
			res.warn("%s looks like %s but its extension says %s; set the format explicitly if the guest fails to boot",
				path, detected, config.InferFormat(path))
		}

		if index == 0 && detected == config.FormatRaw && s.cfg.ISOPath == "" {
			if boot, err := s.deps.Media.HasBootSector(path); err == nil && !boot {
				res.warn("%s has no boot sector; select an installer ISO to boot from", path)
			}
		}
	}

	if s.deps.Images != nil {
		info, err := s.deps.Images.Info(ctx, path)
		if err != nil {
			s.logger.Debug("image info unavailable", "path", path, "err", err)
			return
		}
		res.info("Virtual size: %s", units.BytesSize(float64(info.VirtualSize)))
	}
}

// CreateDisk creates a new image with qemu-img and appends it to the disk
// set. An empty or auto format is resolved from the extension.
func (s *Session) CreateDisk(ctx context.Context, path, size string, format config.DiskFormat) (Result, error) {
	var res Result

	path = strings.TrimSpace(path)
	if path == "" {
		return res, config.Validation("disk path", "path is required")
	}
	if _, err := os.Stat(path); err == nil {
		return res, config.Precondition("create disk", "%s already exists", path)
	}
	if format == "" || format == config.FormatAuto {
		format = config.ResolveFormat(config.DiskEntry{Path: path, Format: config.FormatAuto})
	}

	if err := s.deps.Images.Create(ctx, path, format, size); err != nil {
		return res, err
	}
	if err := s.cfg.AddDisk(config.DiskEntry{Path: path, Format: format}); err != nil {
		return res, err
	}
	res.info("Created %s (%s, %s) as disk %d", path, format, strings.TrimSpace(size), len(s.cfg.Disks)-1)
	return res, nil
}

// EditDisk changes the interface and/or cache of a disk. Empty values keep
// the current setting.
func (s *Session) EditDisk(index int, iface, cache string) (Result, error) {
	var res Result

	edit := config.DiskEdit{
		Interface: config.DiskInterface(strings.ToLower(strings.TrimSpace(iface))),
		Cache:     config.CacheMode(strings.ToLower(strings.TrimSpace(cache))),
	}
	if err := s.cfg.EditDisk(index, edit); err != nil {
		return res, err
	}
	d := s.cfg.Disks[index]
	res.info("Disk %d: interface %s, cache %s", index, d.Interface, d.Cache)
	return res, nil
}

// RemoveDisk deletes a disk from the set. Later disks move up by one.
func (s *Session) RemoveDisk(index int) (Result, error) {
	var res Result

	if index >= 0 && index < len(s.cfg.Disks) {
		res.info("Removed disk %d (%s)", index, s.cfg.Disks[index].Path)
	}
	if err := s.cfg.RemoveDisk(index); err != nil {
		return Result{}, err
	}
	return res, nil
}
