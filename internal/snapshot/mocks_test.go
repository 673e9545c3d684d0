package snapshot

import (
	"context"
	"errors"

	"github.com/jbweber/kiln/internal/config"
)

// mockImageTool is a mock implementation of imageTool for testing.
type mockImageTool struct {
	format    string
	formatErr error
	listing   string
	listErr   error
	createErr error
	deleteErr error

	formatCalls int
	created     []string
	deleted     []string
	paths       []string
}

func (m *mockImageTool) ImageFormat(_ context.Context, path string) (string, error) {
	m.formatCalls++
	m.paths = append(m.paths, path)
	return m.format, m.formatErr
}

func (m *mockImageTool) SnapshotCreate(_ context.Context, path, name string) error {
	m.paths = append(m.paths, path)
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, name)
	return nil
}

func (m *mockImageTool) SnapshotDelete(_ context.Context, path, tag string) error {
	m.paths = append(m.paths, path)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, tag)
	return nil
}

func (m *mockImageTool) SnapshotList(_ context.Context, path string) (string, error) {
	m.paths = append(m.paths, path)
	return m.listing, m.listErr
}

func toolFailure(args ...string) error {
	return &config.ExternalToolFailure{Tool: "qemu-img", Args: args, Err: errors.New("exit status 1")}
}

const twoSnapshots = `Snapshot list:
ID        TAG               VM SIZE                DATE     VM CLOCK     ICOUNT
1         clean-install         0 B 2024-05-01 10:00:00 00:00:00.000          0
2         before-update         0 B 2024-05-02 11:30:00 00:00:00.000          0
`
