package usb

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/logging"
	"github.com/jbweber/kiln/internal/naming"
)

// NotSelected is the summary of an empty selection.
const NotSelected = "Not selected"

// AttachMode says how a device was handed to the guest.
type AttachMode string

const (
	AttachStorage AttachMode = "storage"
	AttachHost    AttachMode = "host"
)

// Attachment records the outcome for one selected device.
type Attachment struct {
	Device      config.USBDevice
	Mode        AttachMode
	BlockDevice string // set for AttachStorage
	DriveID     string // set for AttachStorage
}

// String renders the outcome for user messages.
func (a Attachment) String() string {
	if a.Mode == AttachStorage {
		return fmt.Sprintf("%s: attached as storage (%s)", describe(a.Device), a.BlockDevice)
	}
	return fmt.Sprintf("%s: passed through via host controller", describe(a.Device))
}

// Resolution is the argument fragment and summary for a selection.
type Resolution struct {
	Args        []string
	Summary     string
	Attachments []Attachment
}

// Resolver maps selected devices to passthrough arguments.
type Resolver struct {
	locator Locator
	logger  *slog.Logger
}

// NewResolver returns a resolver using locator for storage lookups.
func NewResolver(locator Locator, logger *slog.Logger) *Resolver {
	return &Resolver{
		locator: locator,
		logger:  logging.Ensure(logger).With("component", "usb"),
	}
}

// Resolve processes devices in selection order. A device backed by a block
// device becomes a raw drive plus usb-storage device. Any other device gets a
// usb-host device on a qemu-xhci controller that is emitted once, ahead of
// the first such device. Lookup failures are logged and fall back to host
// passthrough.
func (r *Resolver) Resolve(devices []config.USBDevice) *Resolution {
	res := &Resolution{Summary: NotSelected}
	if len(devices) == 0 {
		return res
	}

	seen := make(map[string]int)
	controller := false

	for _, dev := range devices {
		if blockDev := r.lookup(dev); blockDev != "" {
			id := naming.Unique(naming.USBStorageID(dev.VendorID, dev.ProductID), seen)
			res.Args = append(res.Args,
				"-drive", fmt.Sprintf("file=%s,if=none,format=raw,id=%s", blockDev, id),
				"-device", "usb-storage,drive="+id,
			)
			res.Attachments = append(res.Attachments, Attachment{
				Device:      dev,
				Mode:        AttachStorage,
				BlockDevice: blockDev,
				DriveID:     id,
			})
			r.logger.Debug("attached as storage", "device", describe(dev), "path", blockDev)
			continue
		}

		if !controller {
			res.Args = append(res.Args, "-device", "qemu-xhci,id=xhci")
			controller = true
		}
		res.Args = append(res.Args, "-device", hostDevice(dev))
		res.Attachments = append(res.Attachments, Attachment{Device: dev, Mode: AttachHost})
	}

	res.Summary = Summary(devices)
	return res
}

// Summary joins the device descriptions with ", " in selection order, or
// returns NotSelected for an empty selection.
func Summary(devices []config.USBDevice) string {
	if len(devices) == 0 {
		return NotSelected
	}
	descriptions := make([]string, 0, len(devices))
	for _, dev := range devices {
		descriptions = append(descriptions, describe(dev))
	}
	return strings.Join(descriptions, ", ")
}

func (r *Resolver) lookup(dev config.USBDevice) string {
	if r.locator == nil {
		return ""
	}
	path, err := r.locator.BlockDevice(dev.VendorID, dev.ProductID)
	if err != nil {
		r.logger.Warn("block device lookup failed", "vendor", dev.VendorID, "product", dev.ProductID, "err", err)
		return ""
	}
	return path
}

// hostDevice addresses the device by bus/address when both are numeric and
// by vendor/product otherwise.
func hostDevice(dev config.USBDevice) string {
	bus, busErr := strconv.Atoi(dev.Bus)
	addr, addrErr := strconv.Atoi(dev.Device)
	if dev.Bus != "" && dev.Device != "" && busErr == nil && addrErr == nil {
		return fmt.Sprintf("usb-host,bus=xhci.0,hostbus=%d,hostaddr=%d", bus, addr)
	}
	return fmt.Sprintf("usb-host,bus=xhci.0,vendorid=0x%s,productid=0x%s",
		strings.ToLower(dev.VendorID), strings.ToLower(dev.ProductID))
}

func describe(dev config.USBDevice) string {
	if dev.Description != "" {
		return dev.Description
	}
	return dev.VendorID + ":" + dev.ProductID
}
