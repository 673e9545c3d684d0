// Package snapshot manages internal qcow2 snapshots of a VM's boot disk.
//
// Every operation targets the first disk of the configuration (or the
// legacy single disk) and requires its on-disk format, as reported by the
// image tool, to be qcow2. Operations are synchronous: the manager leaves
// Idle for the duration of one call and always returns to it.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/logging"
)

// State is the manager's current activity.
type State string

const (
	StateIdle             State = "Idle"
	StateListing          State = "Listing"
	StateCreating         State = "Creating"
	StateDeleting         State = "Deleting"
	StateSelectingForLoad State = "SelectingForLoad"
)

// imageTool is the subset of image tooling the manager needs.
//
// In production, this is satisfied by *storage.QemuImg.
// In tests, this is satisfied by mock implementations.
type imageTool interface {
	// ImageFormat returns the on-disk format of path (e.g. "qcow2", "raw")
	ImageFormat(ctx context.Context, path string) (string, error)

	// SnapshotCreate records a snapshot called name in path
	SnapshotCreate(ctx context.Context, path, name string) error

	// SnapshotDelete removes the snapshot tag from path
	SnapshotDelete(ctx context.Context, path, tag string) error

	// SnapshotList returns the raw listing table for path
	SnapshotList(ctx context.Context, path string) (string, error)
}

// Manager runs snapshot operations against a configuration's boot disk.
type Manager struct {
	tool   imageTool
	logger *slog.Logger
	state  State
}

// NewManager returns an idle manager.
func NewManager(tool imageTool, logger *slog.Logger) *Manager {
	return &Manager{
		tool:   tool,
		logger: logging.Ensure(logger).With("component", "snapshot"),
		state:  StateIdle,
	}
}

// State returns the current state. Outside of a call it is always Idle.
func (m *Manager) State() State {
	return m.state
}

func (m *Manager) enter(s State) func() {
	m.logger.Debug("state transition", "from", m.state, "to", s)
	m.state = s
	return func() {
		m.logger.Debug("state transition", "from", s, "to", StateIdle)
		m.state = StateIdle
	}
}

// Create records a new snapshot called name on the boot disk.
func (m *Manager) Create(ctx context.Context, cfg *config.VMConfig, name string) error {
	defer m.enter(StateCreating)()

	disk, err := targetDisk(cfg, "create snapshot")
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return config.Validation("snapshot name", "name is required")
	}
	if err := m.requireQCOW2(ctx, disk); err != nil {
		return err
	}
	if err := m.tool.SnapshotCreate(ctx, disk, name); err != nil {
		return fmt.Errorf("failed to create snapshot %q: %w", name, err)
	}
	m.logger.Info("created snapshot", "disk", disk, "name", name)
	return nil
}

// List returns the boot disk's snapshot tags in listing order.
func (m *Manager) List(ctx context.Context, cfg *config.VMConfig) ([]string, error) {
	defer m.enter(StateListing)()
	return m.list(ctx, cfg, "list snapshots")
}

// Delete removes the snapshot tag from the boot disk.
func (m *Manager) Delete(ctx context.Context, cfg *config.VMConfig, tag string) error {
	defer m.enter(StateDeleting)()

	if err := m.requireTag(ctx, cfg, "delete snapshot", tag); err != nil {
		return err
	}
	disk, _ := cfg.BootDisk()
	if err := m.tool.SnapshotDelete(ctx, disk, tag); err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", tag, err)
	}
	m.logger.Info("deleted snapshot", "disk", disk, "tag", tag)
	return nil
}

// SelectForLoad marks tag to be resumed at the next launch.
func (m *Manager) SelectForLoad(ctx context.Context, cfg *config.VMConfig, tag string) error {
	defer m.enter(StateSelectingForLoad)()

	if err := m.requireTag(ctx, cfg, "load snapshot", tag); err != nil {
		return err
	}
	cfg.PendingSnapshotLoad = tag
	m.logger.Info("snapshot selected for next launch", "tag", tag)
	return nil
}

func (m *Manager) list(ctx context.Context, cfg *config.VMConfig, op string) ([]string, error) {
	disk, err := targetDisk(cfg, op)
	if err != nil {
		return nil, err
	}
	if err := m.requireQCOW2(ctx, disk); err != nil {
		return nil, err
	}
	out, err := m.tool.SnapshotList(ctx, disk)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return ParseSnapshotList(out), nil
}

// requireTag checks that at least one snapshot exists and tag is one of them.
func (m *Manager) requireTag(ctx context.Context, cfg *config.VMConfig, op, tag string) error {
	tags, err := m.list(ctx, cfg, op)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return config.Precondition(op, "no snapshots exist")
	}
	if !slices.Contains(tags, tag) {
		return config.Validation("snapshot", "%q not found (available: %s)", tag, strings.Join(tags, ", "))
	}
	return nil
}

func (m *Manager) requireQCOW2(ctx context.Context, disk string) error {
	format, err := m.tool.ImageFormat(ctx, disk)
	if err != nil {
		return fmt.Errorf("failed to query format of %s: %w", disk, err)
	}
	if format != string(config.FormatQCOW2) {
		return &config.UnsupportedOperationError{
			Op:     "snapshots",
			Reason: fmt.Sprintf("%s is %s, qcow2 required", disk, format),
		}
	}
	return nil
}

func targetDisk(cfg *config.VMConfig, op string) (string, error) {
	if cfg == nil {
		return "", config.Precondition(op, "no configuration")
	}
	disk, ok := cfg.BootDisk()
	if !ok {
		return "", config.Precondition(op, "no disk selected")
	}
	return disk, nil
}
