package session

import (
	"context"
	"strings"
)

// SnapshotCreate records a snapshot on the boot disk.
func (s *Session) SnapshotCreate(ctx context.Context, name string) (Result, error) {
	var res Result
	name = strings.TrimSpace(name)
	if err := s.deps.Snapshots.Create(ctx, s.cfg, name); err != nil {
		return res, err
	}
	res.info("Snapshot %q created", name)
	return res, nil
}

// SnapshotList returns the boot disk's snapshot tags.
func (s *Session) SnapshotList(ctx context.Context) ([]string, error) {
	return s.deps.Snapshots.List(ctx, s.cfg)
}

// SnapshotDelete removes a snapshot from the boot disk.
func (s *Session) SnapshotDelete(ctx context.Context, tag string) (Result, error) {
	var res Result
	if err := s.deps.Snapshots.Delete(ctx, s.cfg, tag); err != nil {
		return res, err
	}
	res.info("Snapshot %q deleted", tag)
	return res, nil
}

// SnapshotSelectForLoad resumes from tag at the next launch.
func (s *Session) SnapshotSelectForLoad(ctx context.Context, tag string) (Result, error) {
	var res Result
	if err := s.deps.Snapshots.SelectForLoad(ctx, s.cfg, tag); err != nil {
		return res, err
	}
	res.info("Snapshot %q will be loaded at the next start", tag)
	if len(s.cfg.Disks) == 0 {
		res.warn("the boot disk is the legacy disk field; -loadvm is only emitted for disks in the disk set")
	}
	return res, nil
}
