package output

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/kiln/internal/profile"
)

// createTestEntry creates a profile entry for testing.
func createTestEntry(name, disk string) Entry {
	r := profile.Record{
		RAM:      "4G",
		Cores:    4,
		Firmware: "UEFI",
		NetInfo:  "NAT",
		KVM:      true,
		USBInfo:  "Not selected",
		QemuBin:  "qemu-system-x86_64",
		Disks:    []profile.DiskRecord{},
	}
	if disk != "" {
		r.Disks = append(r.Disks, profile.DiskRecord{Path: disk, Iface: "virtio", Cache: "none", Format: "qcow2"})
	}
	return Entry{Name: name, Record: r}
}

func TestTableFormatter_FormatProfile(t *testing.T) {
	formatter := &TableFormatter{}
	output, err := formatter.FormatProfile(createTestEntry("dev", "/vm/fedora.qcow2"))
	if err != nil {
		t.Fatalf("FormatProfile() error = %v", err)
	}

	for _, want := range []string{"dev", "fedora.qcow2", "4G", "UEFI", "NAT", "yes"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestTableFormatter_Defaults(t *testing.T) {
	formatter := &TableFormatter{NoHeaders: true}
	output, err := formatter.FormatProfile(Entry{Name: "bare", Record: profile.Record{Disk: "/vm/legacy.img"}})
	if err != nil {
		t.Fatalf("FormatProfile() error = %v", err)
	}

	fields := strings.Fields(output)
	want := []string{"bare", "legacy.img", "1", "2G", "2", "BIOS", "Not", "set", "no", "-"}
	if strings.Join(fields, " ") != strings.Join(want, " ") {
		t.Errorf("row = %v, want %v", fields, want)
	}
}

func TestTableFormatter_FormatProfileList(t *testing.T) {
	tests := []struct {
		name       string
		entries    []Entry
		noHeaders  bool
		wantCount  int
		wantHeader bool
	}{
		{
			name:      "empty list",
			entries:   []Entry{},
			wantCount: 0,
		},
		{
			name:       "single profile",
			entries:    []Entry{createTestEntry("a", "/vm/a.qcow2")},
			wantCount:  1,
			wantHeader: true,
		},
		{
			name: "multiple profiles",
			entries: []Entry{
				createTestEntry("a", "/vm/a.qcow2"),
				createTestEntry("b", ""),
				createTestEntry("c", "/vm/c.img"),
			},
			wantCount:  3,
			wantHeader: true,
		},
		{
			name:      "no headers",
			entries:   []Entry{createTestEntry("a", "/vm/a.qcow2")},
			noHeaders: true,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TableFormatter{NoHeaders: tt.noHeaders}
			output, err := formatter.FormatProfileList(tt.entries)
			if err != nil {
				t.Fatalf("FormatProfileList() error = %v", err)
			}

			if tt.wantCount == 0 {
				if !strings.Contains(output, "No profiles found") {
					t.Errorf("expected 'No profiles found' message, got: %s", output)
				}
				return
			}

			hasHeader := strings.Contains(output, "NAME") && strings.Contains(output, "FIRMWARE")
			if tt.wantHeader != hasHeader {
				t.Errorf("header present = %v, want %v: %s", hasHeader, tt.wantHeader, output)
			}

			lines := strings.Split(strings.TrimSpace(output), "\n")
			expectedLines := tt.wantCount
			if tt.wantHeader {
				expectedLines++
			}
			if len(lines) != expectedLines {
				t.Errorf("expected %d lines, got %d: %s", expectedLines, len(lines), output)
			}
		})
	}
}

func TestYAMLFormatter_FormatProfile(t *testing.T) {
	formatter := &YAMLFormatter{}
	output, err := formatter.FormatProfile(createTestEntry("dev", "/vm/fedora.qcow2"))
	if err != nil {
		t.Fatalf("FormatProfile() error = %v", err)
	}

	for _, field := range []string{"name: dev", "ram: 4G", "cores: 4", "net_info: NAT", "kvm: true", "path: /vm/fedora.qcow2"} {
		if !strings.Contains(output, field) {
			t.Errorf("output missing field %q: %s", field, output)
		}
	}

	var r profile.Record
	if err := yaml.Unmarshal([]byte(output), &r); err != nil {
		t.Fatalf("output does not parse as a record: %v", err)
	}
	if r.RAM != "4G" || len(r.Disks) != 1 {
		t.Errorf("parsed record = %+v", r)
	}
}

func TestYAMLFormatter_FormatProfileList(t *testing.T) {
	formatter := &YAMLFormatter{}

	output, err := formatter.FormatProfileList(nil)
	if err != nil {
		t.Fatalf("FormatProfileList() error = %v", err)
	}
	if output != "" {
		t.Errorf("expected empty output, got: %s", output)
	}

	output, err = formatter.FormatProfileList([]Entry{createTestEntry("a", ""), createTestEntry("b", "")})
	if err != nil {
		t.Fatalf("FormatProfileList() error = %v", err)
	}
	if got := strings.Count(output, "---\n"); got != 1 {
		t.Errorf("expected 1 document separator, got %d: %s", got, output)
	}
}

func TestJSONFormatter(t *testing.T) {
	formatter := &JSONFormatter{}

	output, err := formatter.FormatProfile(createTestEntry("dev", "/vm/fedora.qcow2"))
	if err != nil {
		t.Fatalf("FormatProfile() error = %v", err)
	}
	var single map[string]any
	if err := json.Unmarshal([]byte(output), &single); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if single["name"] != "dev" || single["net_info"] != "NAT" {
		t.Errorf("unexpected JSON object: %v", single)
	}

	output, err = formatter.FormatProfileList(nil)
	if err != nil || output != "[]\n" {
		t.Errorf("empty list = %q, %v", output, err)
	}

	output, err = formatter.FormatProfileList([]Entry{createTestEntry("a", ""), createTestEntry("b", "")})
	if err != nil {
		t.Fatalf("FormatProfileList() error = %v", err)
	}
	var list []map[string]any
	if err := json.Unmarshal([]byte(output), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 entries, got %d", len(list))
	}
}

func TestNewFormatter(t *testing.T) {
	for _, f := range []Format{FormatTable, FormatYAML, FormatJSON} {
		if _, err := NewFormatter(Options{Format: f}); err != nil {
			t.Errorf("NewFormatter(%s) error = %v", f, err)
		}
	}
	if _, err := NewFormatter(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
	if err := ValidateFormat("yaml"); err != nil {
		t.Errorf("ValidateFormat(yaml) error = %v", err)
	}
	if err := ValidateFormat("csv"); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestNewEntries(t *testing.T) {
	records := map[string]profile.Record{
		"b": {RAM: "2G"},
		"a": {RAM: "1G"},
	}
	entries := NewEntries([]string{"a", "b"}, records)
	if len(entries) != 2 || entries[0].Name != "a" || entries[0].RAM != "1G" || entries[1].RAM != "2G" {
		t.Errorf("NewEntries() = %+v", entries)
	}
}
