package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/hostnet"
	"github.com/jbweber/kiln/internal/logging"
	"github.com/jbweber/kiln/internal/profile"
	"github.com/jbweber/kiln/internal/qemu"
	"github.com/jbweber/kiln/internal/storage"
	"github.com/jbweber/kiln/internal/usb"
)

// mockImageTool is a mock implementation of imageTool for testing.
type mockImageTool struct {
	created   []string
	createErr error
	info      *storage.ImageInfo
	infoErr   error
}

func (m *mockImageTool) Create(_ context.Context, path string, format config.DiskFormat, size string) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, strings.Join([]string{path, string(format), size}, " "))
	return nil
}

func (m *mockImageTool) Info(_ context.Context, path string) (*storage.ImageInfo, error) {
	if m.infoErr != nil {
		return nil, m.infoErr
	}
	if m.info == nil {
		return nil, errors.New("no info")
	}
	return m.info, nil
}

// mockMedia is a mock implementation of mediaInspector for testing.
type mockMedia struct {
	detected config.DiskFormat
	mismatch bool
	boot     bool
	iso      *storage.ISOInfo
	isoErr   error
}

func (m *mockMedia) FormatMismatch(string) (config.DiskFormat, bool, error) {
	return m.detected, m.mismatch, nil
}

func (m *mockMedia) HasBootSector(string) (bool, error) {
	return m.boot, nil
}

func (m *mockMedia) InspectISO(path string) (*storage.ISOInfo, error) {
	if m.isoErr != nil {
		return nil, m.isoErr
	}
	if m.iso != nil {
		return m.iso, nil
	}
	return &storage.ISOInfo{Path: path}, nil
}

// mockSnapshots is a mock implementation of snapshotManager for testing.
type mockSnapshots struct {
	tags  []string
	err   error
	calls []string
}

func (m *mockSnapshots) Create(_ context.Context, _ *config.VMConfig, name string) error {
	m.calls = append(m.calls, "create "+name)
	return m.err
}

func (m *mockSnapshots) List(context.Context, *config.VMConfig) ([]string, error) {
	m.calls = append(m.calls, "list")
	return m.tags, m.err
}

func (m *mockSnapshots) Delete(_ context.Context, _ *config.VMConfig, tag string) error {
	m.calls = append(m.calls, "delete "+tag)
	return m.err
}

func (m *mockSnapshots) SelectForLoad(_ context.Context, cfg *config.VMConfig, tag string) error {
	m.calls = append(m.calls, "select "+tag)
	if m.err != nil {
		return m.err
	}
	cfg.PendingSnapshotLoad = tag
	return nil
}

// mockEnumerator is a mock implementation of usbEnumerator for testing.
type mockEnumerator struct {
	devices []config.USBDevice
	err     error
}

func (m *mockEnumerator) Devices(context.Context) ([]config.USBDevice, error) {
	return m.devices, m.err
}

// mockLocator is a mock implementation of usb.Locator for testing.
type mockLocator struct {
	paths map[string]string
}

func (m *mockLocator) BlockDevice(vendorID, productID string) (string, error) {
	return m.paths[vendorID+":"+productID], nil
}

// mockProbe is a mock implementation of qemu.HostProbe for testing.
type mockProbe struct {
	kvm   bool
	files map[string]bool
}

func (m *mockProbe) KVMSupported() bool {
	return m.kvm
}

func (m *mockProbe) FileExists(path string) bool {
	return m.files[path]
}

// mockLinks is a mock implementation of linkInspector for testing.
type mockLinks struct {
	status hostnet.LinkStatus
	err    error
}

func (m *mockLinks) Link(name string) (hostnet.LinkStatus, error) {
	m.status.Name = name
	return m.status, m.err
}

// mockLauncher is a mock implementation of launcher for testing.
type mockLauncher struct {
	prefix []string
	execed [][]string
	err    error
}

func (m *mockLauncher) Argv(args []string) []string {
	return append(append([]string(nil), m.prefix...), args...)
}

func (m *mockLauncher) Exec(args []string) error {
	m.execed = append(m.execed, args)
	return m.err
}

// testEnv bundles a session with the mocks behind it.
type testEnv struct {
	session   *Session
	images    *mockImageTool
	media     *mockMedia
	snapshots *mockSnapshots
	devices   *mockEnumerator
	locator   *mockLocator
	probe     *mockProbe
	links     *mockLinks
	launcher  *mockLauncher
	profiles  *profile.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logging.Discard()

	env := &testEnv{
		images:    &mockImageTool{},
		media:     &mockMedia{detected: config.FormatQCOW2, boot: true},
		snapshots: &mockSnapshots{},
		devices:   &mockEnumerator{},
		locator:   &mockLocator{paths: map[string]string{}},
		probe:     &mockProbe{kvm: true, files: map[string]bool{}},
		links:     &mockLinks{},
		launcher:  &mockLauncher{prefix: []string{"sudo"}},
		profiles:  profile.NewStore(filepath.Join(t.TempDir(), "profiles.json"), logger),
	}

	env.session = New(Deps{
		Images:    env.images,
		Media:     env.media,
		Snapshots: env.snapshots,
		Devices:   env.devices,
		Resolver:  usb.NewResolver(env.locator, logger),
		Compiler:  qemu.NewCompiler(env.probe, "", logger),
		Probe:     env.probe,
		Profiles:  env.profiles,
		Links:     env.links,
		Launcher:  env.launcher,
		LookPath: func(file string) (string, error) {
			return "/usr/bin/" + file, nil
		},
	}, logger)
	return env
}
