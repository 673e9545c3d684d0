package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jbweber/kiln/internal/arch"
	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/session"
)

const menuText = `
1) Select disk image        2) Advanced disk settings   3) Select ISO
4) RAM                      5) CPU cores                6) Firmware
7) Network                  8) KVM acceleration         9) USB passthrough
a) Architecture / binary    s) Snapshots                p) Profiles
c) Show command             r) Start VM                 q) Quit
`

// errQuit ends the menu loop.
var errQuit = errors.New("quit")

// menu is the thin dispatch loop over session handlers. It reads one choice
// per line and prints handler results; errors never end the loop.
type menu struct {
	s   *session.Session
	in  *bufio.Scanner
	out io.Writer
}

func newMenu(s *session.Session, in io.Reader, out io.Writer) *menu {
	return &menu{s: s, in: bufio.NewScanner(in), out: out}
}

// Run loops until the operator quits, input ends or a launch replaces the
// process.
func (m *menu) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		m.printSummary()
		_, _ = fmt.Fprint(m.out, menuText)

		choice, ok := m.prompt("Choice")
		if !ok {
			return nil
		}
		err := m.dispatch(ctx, strings.ToLower(choice))
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			m.printf("Error: %v\n", err)
		}
	}
}

func (m *menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		path, ok := m.pickFile("Disk image path")
		if !ok {
			return nil
		}
		return m.show(m.s.SelectDisk(ctx, path))
	case "2":
		return m.diskMenu(ctx)
	case "3":
		return m.isoMenu()
	case "4":
		v, _ := m.prompt("RAM (e.g. 2G, 512M)")
		return m.show(m.s.SetRAM(v))
	case "5":
		v, _ := m.prompt("CPU cores")
		return m.show(m.s.SetCores(v))
	case "6":
		v, _ := m.prompt("Firmware [BIOS/UEFI]")
		return m.show(m.s.SetFirmware(v))
	case "7":
		v, _ := m.prompt("Network [NAT/Tap/None]")
		return m.show(m.s.SetNetwork(v))
	case "8":
		return m.show(m.s.SetKVM(m.confirm("Enable KVM acceleration?")), nil)
	case "9":
		return m.usbMenu(ctx)
	case "a":
		return m.archMenu()
	case "s":
		return m.snapshotMenu(ctx)
	case "p":
		return m.profileMenu()
	case "c":
		res, _ := m.s.Preview()
		return m.show(res, nil)
	case "r":
		return m.start(ctx)
	case "q":
		return errQuit
	case "":
		return nil
	}
	return fmt.Errorf("unknown choice %q", choice)
}

func (m *menu) diskMenu(ctx context.Context) error {
	m.printDisks()
	choice, _ := m.prompt("a) create new disk  e) edit  r) remove  b) back")
	switch strings.ToLower(choice) {
	case "a":
		path, _ := m.prompt("New image path")
		size, _ := m.prompt("Size (e.g. 20G)")
		format, _ := m.prompt("Format [qcow2/raw, empty for auto]")
		return m.show(m.s.CreateDisk(ctx, path, size, config.DiskFormat(strings.ToLower(format))))
	case "e":
		index, err := m.promptIndex("Disk number")
		if err != nil {
			return err
		}
		iface, _ := m.prompt("Interface [virtio/sata/scsi, empty to keep]")
		cache, _ := m.prompt("Cache [none/writeback/writethrough, empty to keep]")
		return m.show(m.s.EditDisk(index, iface, cache))
	case "r":
		index, err := m.promptIndex("Disk number")
		if err != nil {
			return err
		}
		return m.show(m.s.RemoveDisk(index))
	}
	return nil
}

func (m *menu) isoMenu() error {
	path, ok := m.pickFile("ISO path (empty to clear)")
	if !ok {
		if m.s.Config().ISOPath != "" {
			return m.show(m.s.ClearISO(), nil)
		}
		return nil
	}
	return m.show(m.s.SetISO(path))
}

func (m *menu) usbMenu(ctx context.Context) error {
	devices, err := m.s.USBCandidates(ctx)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		m.printf("No USB devices found\n")
		return nil
	}
	for i, d := range devices {
		m.printf("  %d) %s:%s %s\n", i, d.VendorID, d.ProductID, d.Description)
	}
	line, _ := m.prompt("Devices (e.g. 0,2; empty to clear)")
	indices, err := parseIndices(line)
	if err != nil {
		return err
	}
	return m.show(m.s.SelectUSB(indices))
}

func (m *menu) archMenu() error {
	names := make([]string, 0, len(arch.Supported()))
	for _, a := range arch.Supported() {
		names = append(names, a.String())
	}
	m.printf("Architectures: %s\n", strings.Join(names, ", "))
	v, _ := m.prompt("Architecture or emulator binary")
	if arch.Normalize(v) != "" {
		return m.show(m.s.SetArchitecture(v))
	}
	return m.show(m.s.SetBinary(v))
}

func (m *menu) snapshotMenu(ctx context.Context) error {
	choice, _ := m.prompt("c) create  l) list  d) delete  o) load at next start  b) back")
	choice = strings.ToLower(choice)
	switch choice {
	case "c":
		name, _ := m.prompt("Snapshot name")
		return m.show(m.s.SnapshotCreate(ctx, name))
	case "l":
		_, err := m.listSnapshots(ctx)
		return err
	case "d", "o":
		tags, err := m.listSnapshots(ctx)
		if err != nil || len(tags) == 0 {
			return err
		}
		tag, err := m.pick(tags, "Snapshot number")
		if err != nil {
			return err
		}
		if choice == "d" {
			return m.show(m.s.SnapshotDelete(ctx, tag))
		}
		return m.show(m.s.SnapshotSelectForLoad(ctx, tag))
	}
	return nil
}

func (m *menu) listSnapshots(ctx context.Context) ([]string, error) {
	tags, err := m.s.SnapshotList(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		m.printf("No snapshots\n")
	}
	for i, tag := range tags {
		m.printf("  %d) %s\n", i, tag)
	}
	return tags, nil
}

func (m *menu) profileMenu() error {
	choice, _ := m.prompt("s) save  l) load  v) view list  b) back")
	choice = strings.ToLower(choice)
	switch choice {
	case "s":
		name, _ := m.prompt("Profile name")
		return m.show(m.s.SaveProfile(name))
	case "l", "v":
		names, err := m.s.ListProfiles()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			if choice == "l" {
				return config.Precondition("load profile", "no saved profiles")
			}
			m.printf("No profiles found\n")
			return nil
		}
		for i, name := range names {
			m.printf("  %d) %s\n", i, name)
		}
		if choice == "v" {
			return nil
		}
		name, err := m.pick(names, "Profile number")
		if err != nil {
			return err
		}
		return m.show(m.s.LoadProfile(name))
	}
	return nil
}

func (m *menu) start(ctx context.Context) error {
	res, _ := m.s.Preview()
	_ = m.show(res, nil)
	if !m.confirm("Start the VM with this command?") {
		return nil
	}
	return m.show(m.s.Launch(ctx))
}

// show prints a handler result and passes its error through.
func (m *menu) show(res session.Result, err error) error {
	for _, msg := range res.Messages {
		m.printf("%s\n", msg)
	}
	for _, w := range res.Warnings {
		m.printf("Warning: %s\n", w)
	}
	return err
}

func (m *menu) printSummary() {
	m.printf("\n")
	for _, s := range m.s.Summary() {
		m.printf("%-14s %s\n", s.Label+":", s.Value)
	}
}

func (m *menu) printDisks() {
	disks := m.s.Config().Disks
	if len(disks) == 0 {
		m.printf("No disks in the disk set\n")
		return
	}
	for i, d := range disks {
		m.printf("  %d) %s  if=%s cache=%s format=%s\n", i, d.Path, d.Interface, d.Cache, d.Format)
	}
}

// pickFile is the file picker: it returns one path or none.
func (m *menu) pickFile(label string) (string, bool) {
	path, ok := m.prompt(label)
	if !ok || path == "" {
		return "", false
	}
	return path, true
}

func (m *menu) pick(items []string, label string) (string, error) {
	index, err := m.promptIndex(label)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(items) {
		return "", config.Precondition("select", "index %d out of range (0-%d)", index, len(items)-1)
	}
	return items[index], nil
}

func (m *menu) promptIndex(label string) (int, error) {
	v, _ := m.prompt(label)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, config.Validation("index", "%q is not a number", v)
	}
	return n, nil
}

func (m *menu) confirm(question string) bool {
	v, _ := m.prompt(question + " [y/N]")
	switch strings.ToLower(v) {
	case "y", "yes":
		return true
	}
	return false
}

// prompt reads one trimmed line. ok is false at end of input.
func (m *menu) prompt(label string) (string, bool) {
	m.printf("%s: ", label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}

// parseIndices reads a comma or space separated list of numbers.
func parseIndices(line string) ([]int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' })
	indices := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, config.Validation("selection", "%q is not a number", f)
		}
		indices = append(indices, n)
	}
	return indices, nil
}
