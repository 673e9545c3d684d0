// Package session holds the command handlers behind the interactive menu.
//
// A Session owns the single VMConfig being edited. Every menu entry maps to
// one method that validates its input, mutates the configuration (or leaves
// it untouched on error) and returns a Result carrying the messages and
// warnings to show. Handlers never print and never exit; the menu loop in
// cmd/kiln decides how to present what they return.
//
// Collaborators (qemu-img, lsusb, netlink, the profile file, exec) are
// reached through the consumer-side interfaces in interfaces.go so the
// handlers can be tested with the mocks in mocks_test.go.
package session
