// Package hostnet inspects host network links that network modes depend on.
package hostnet

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"

	"github.com/vishvananda/netlink"
)

// LinkStatus describes one host link.
type LinkStatus struct {
	Name   string
	Exists bool
	Up     bool
	Type   string // netlink link type, e.g. "tuntap" or "bridge"
}

// Ready reports whether the link exists and is administratively up.
func (s LinkStatus) Ready() bool {
	return s.Exists && s.Up
}

// linkLookup is satisfied by netlink.LinkByName.
type linkLookup func(name string) (netlink.Link, error)

// Inspector looks up links through netlink.
type Inspector struct {
	lookup linkLookup
}

// NewInspector returns an inspector backed by the host's netlink socket.
func NewInspector() *Inspector {
	return &Inspector{lookup: netlink.LinkByName}
}

// Link returns the status of the named link. A missing link is reported
// through LinkStatus.Exists, not as an error.
func (i *Inspector) Link(name string) (LinkStatus, error) {
	status := LinkStatus{Name: name}

	link, err := i.lookup(name)
	if err != nil {
		if isLinkNotFound(err) {
			return status, nil
		}
		return status, fmt.Errorf("lookup %s: %w", name, err)
	}

	attrs := link.Attrs()
	status.Exists = true
	status.Type = link.Type()
	if attrs != nil {
		status.Up = attrs.Flags&net.FlagUp != 0
	}
	return status, nil
}

func isLinkNotFound(err error) bool {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ENODEV) {
		return true
	}
	var notFound netlink.LinkNotFoundError
	return errors.As(err, &notFound)
}
