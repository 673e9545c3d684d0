package storage

import "github.com/jbweber/kiln/internal/config"

// Inspector reads image and ISO headers from the local filesystem.
// It exposes the package-level helpers behind one value so callers can
// substitute a fake.
type Inspector struct{}

// FormatMismatch calls FormatMismatch.
func (Inspector) FormatMismatch(path string) (config.DiskFormat, bool, error) {
	return FormatMismatch(path)
}

// HasBootSector calls HasBootSector.
func (Inspector) HasBootSector(path string) (bool, error) {
	return HasBootSector(path)
}

// InspectISO calls InspectISO.
func (Inspector) InspectISO(path string) (*ISOInfo, error) {
	return InspectISO(path)
}
