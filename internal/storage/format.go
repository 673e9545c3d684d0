package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jbweber/kiln/internal/config"
)

var (
	// qcow2Magic is "QFI" followed by 0xfb at offset 0.
	// Reference: https://www.qemu.org/docs/master/interop/qcow2.html
	qcow2Magic = []byte{0x51, 0x46, 0x49, 0xfb}

	// mbrSignature is the boot sector signature at offset 510. GPT disks carry
	// it too in their protective MBR.
	mbrSignature = []byte{0x55, 0xaa}
)

// DetectImageFormat reads the first bytes of filePath and returns
// FormatQCOW2 when the qcow2 magic is present and FormatRaw otherwise.
// It fails only when the file cannot be read.
func DetectImageFormat(filePath string) (config.DiskFormat, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	magic := make([]byte, len(qcow2Magic))
	n, err := io.ReadFull(f, magic)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read image header: %w", err)
	}
	if n == len(qcow2Magic) && bytes.Equal(magic, qcow2Magic) {
		return config.FormatQCOW2, nil
	}
	return config.FormatRaw, nil
}

// HasBootSector reports whether filePath carries the MBR boot signature at
// offset 510. Files shorter than one sector report false.
func HasBootSector(filePath string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sig := make([]byte, len(mbrSignature))
	if _, err := f.ReadAt(sig, 510); err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("failed to read boot sector signature: %w", err)
	}
	return bytes.Equal(sig, mbrSignature), nil
}

// FormatMismatch compares the extension-derived format of filePath with its
// magic bytes. It returns the detected format and whether the two disagree.
// Paths whose extension maps to auto never mismatch.
func FormatMismatch(filePath string) (config.DiskFormat, bool, error) {
	detected, err := DetectImageFormat(filePath)
	if err != nil {
		return "", false, err
	}
	inferred := config.InferFormat(filePath)
	if inferred == config.FormatAuto {
		return detected, false, nil
	}
	return detected, inferred != detected, nil
}
