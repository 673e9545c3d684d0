package usb

import "strings"

// fakeLocator maps "vendor:product" to a block device path.
type fakeLocator struct {
	paths   map[string]string
	errs    map[string]error
	lookups []string
}

func newFakeLocator() *fakeLocator {
	return &fakeLocator{
		paths: make(map[string]string),
		errs:  make(map[string]error),
	}
}

func (f *fakeLocator) BlockDevice(vendorID, productID string) (string, error) {
	key := strings.ToLower(vendorID + ":" + productID)
	f.lookups = append(f.lookups, key)
	return f.paths[key], f.errs[key]
}
