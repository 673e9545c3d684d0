package session

import (
	"context"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/hostnet"
	"github.com/jbweber/kiln/internal/qemu"
	"github.com/jbweber/kiln/internal/storage"
	"github.com/jbweber/kiln/internal/usb"
)

// imageTool defines the image operations the disk handlers need.
//
// In production, this is satisfied by *storage.QemuImg.
// In tests, this is satisfied by mock implementations.
type imageTool interface {
	// Create makes a new empty image of the given format and size
	Create(ctx context.Context, path string, format config.DiskFormat, size string) error

	// Info returns the image metadata reported by qemu-img
	Info(ctx context.Context, path string) (*storage.ImageInfo, error)
}

// mediaInspector reads image and ISO headers.
//
// In production, this is satisfied by storage.Inspector.
// In tests, this is satisfied by mock implementations.
type mediaInspector interface {
	// FormatMismatch compares the extension-derived format with the magic bytes
	FormatMismatch(path string) (config.DiskFormat, bool, error)

	// HasBootSector reports whether the image carries an MBR signature
	HasBootSector(path string) (bool, error)

	// InspectISO validates an ISO9660 image and reads its label
	InspectISO(path string) (*storage.ISOInfo, error)
}

// snapshotManager defines the snapshot operations exposed by the menu.
//
// In production, this is satisfied by *snapshot.Manager.
// In tests, this is satisfied by mock implementations.
type snapshotManager interface {
	// Create records a snapshot named name on the boot disk
	Create(ctx context.Context, cfg *config.VMConfig, name string) error

	// List returns the snapshot tags of the boot disk
	List(ctx context.Context, cfg *config.VMConfig) ([]string, error)

	// Delete removes the snapshot tag from the boot disk
	Delete(ctx context.Context, cfg *config.VMConfig, tag string) error

	// SelectForLoad marks tag to be resumed at the next launch
	SelectForLoad(ctx context.Context, cfg *config.VMConfig, tag string) error
}

// usbEnumerator lists host USB devices.
//
// In production, this is satisfied by *usb.LsusbEnumerator.
// In tests, this is satisfied by mock implementations.
type usbEnumerator interface {
	// Devices returns the selectable host devices
	Devices(ctx context.Context) ([]config.USBDevice, error)
}

// usbResolver maps selected devices to passthrough arguments.
//
// In production, this is satisfied by *usb.Resolver.
type usbResolver interface {
	// Resolve processes devices in selection order
	Resolve(devices []config.USBDevice) *usb.Resolution
}

// invocationCompiler turns the configuration into an argument vector.
//
// In production, this is satisfied by *qemu.Compiler.
type invocationCompiler interface {
	// Preview compiles without touching cfg
	Preview(cfg config.VMConfig, usbArgs []string) *qemu.Invocation

	// Compile compiles for a launch and consumes the pending snapshot marker
	Compile(cfg *config.VMConfig, usbArgs []string) *qemu.Invocation

	// FirmwarePath returns the UEFI image the compiler checks for
	FirmwarePath() string
}

// profileStore persists configurations by name.
//
// In production, this is satisfied by *profile.Store.
// In tests, this is satisfied by mock implementations.
type profileStore interface {
	// Save writes cfg under name
	Save(name string, cfg *config.VMConfig) error

	// Load returns the configuration stored under name
	Load(name string) (*config.VMConfig, error)

	// List returns the saved profile names in sorted order
	List() ([]string, error)
}

// linkInspector checks host network links.
//
// In production, this is satisfied by *hostnet.Inspector.
// In tests, this is satisfied by mock implementations.
type linkInspector interface {
	// Link returns the status of the named link
	Link(name string) (hostnet.LinkStatus, error)
}

// launcher replaces the session with the hypervisor.
//
// In production, this is satisfied by *launch.Launcher.
// In tests, this is satisfied by mock implementations.
type launcher interface {
	// Argv returns the vector Exec would run, privilege prefix included
	Argv(args []string) []string

	// Exec replaces the process. It only returns on failure.
	Exec(args []string) error
}
