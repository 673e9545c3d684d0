// Package output provides formatters for displaying saved profiles
// in various formats (table, YAML, JSON).
package output

import (
	"fmt"

	"github.com/jbweber/kiln/internal/profile"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML format that `kiln profile import` reads back.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// Entry is a named profile record as written by the formatters.
type Entry struct {
	Name           string `json:"name" yaml:"name"`
	profile.Record `yaml:",inline"`
}

// NewEntries pairs each name with its record, keeping the order of names.
func NewEntries(names []string, records map[string]profile.Record) []Entry {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Record: records[name]})
	}
	return entries
}

// Formatter formats profiles for output.
type Formatter interface {
	// FormatProfile formats a single profile.
	FormatProfile(e Entry) (string, error)

	// FormatProfileList formats a list of profiles.
	FormatProfileList(entries []Entry) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}
