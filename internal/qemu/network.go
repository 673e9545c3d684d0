package qemu

import (
	"fmt"

	"github.com/mattn/go-shellwords"

	"github.com/jbweber/kiln/internal/config"
)

// Network flag templates, one per mode.
const (
	natTemplate  = "-netdev user,id=net0,hostfwd=tcp::2222-:22 -device e1000,netdev=net0"
	tapTemplate  = "-device virtio-net-pci,netdev=net0 -netdev tap,id=net0,ifname=" + TapInterface + ",script=no,downscript=no"
	noneTemplate = "-nic none"
)

// TapInterface is the host tap device the Tap template attaches to.
const TapInterface = "tap0"

// NetworkTemplate returns the flag template for mode, or "" when mode adds
// no flags.
func NetworkTemplate(mode config.NetworkMode) string {
	switch mode {
	case config.NetworkNAT:
		return natTemplate
	case config.NetworkTap:
		return tapTemplate
	case config.NetworkNone:
		return noneTemplate
	}
	return ""
}

// NetworkArgs expands the template for mode into argument tokens.
func NetworkArgs(mode config.NetworkMode) ([]string, error) {
	tmpl := NetworkTemplate(mode)
	if tmpl == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s network template: %w", mode, err)
	}
	return args, nil
}
