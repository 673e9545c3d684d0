package storage

import (
	"fmt"
	"os"
	"strings"

	"github.com/kdomanski/iso9660"

	"github.com/jbweber/kiln/internal/config"
)

// InspectISO opens path as an ISO9660 image and returns its volume label
// and root directory entries. A file that is not an ISO9660 image yields a
// ValidationError.
func InspectISO(path string) (*ISOInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ISO: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := iso9660.OpenImage(f)
	if err != nil {
		return nil, config.Validation("iso", "%s is not an ISO9660 image: %v", path, err)
	}

	label, err := img.Label()
	if err != nil {
		return nil, fmt.Errorf("failed to read volume label: %w", err)
	}

	info := &ISOInfo{Path: path, Label: strings.TrimSpace(label)}

	root, err := img.RootDir()
	if err != nil {
		return nil, fmt.Errorf("failed to read root directory: %w", err)
	}
	children, err := root.GetChildren()
	if err != nil {
		return nil, fmt.Errorf("failed to list root directory: %w", err)
	}
	for _, child := range children {
		info.Files = append(info.Files, child.Name())
	}
	return info, nil
}
