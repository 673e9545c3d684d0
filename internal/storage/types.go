package storage

// ImageInfo is the subset of `qemu-img info --output=json` kiln consumes.
type ImageInfo struct {
	Filename    string `json:"filename"`
	Format      string `json:"format"`
	VirtualSize int64  `json:"virtual-size"`
	ActualSize  int64  `json:"actual-size"`
	Encrypted   bool   `json:"encrypted"`
}

// VirtualSizeGB returns the guest-visible size in GB.
func (i *ImageInfo) VirtualSizeGB() float64 {
	return float64(i.VirtualSize) / (1024 * 1024 * 1024)
}

// ISOInfo describes an installer image.
type ISOInfo struct {
	Path  string
	Label string
	Files []string // entries of the root directory
}

// DefaultQemuImg is the image tool binary looked up on PATH.
const DefaultQemuImg = "qemu-img"
