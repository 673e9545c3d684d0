package output

import (
	"encoding/json"
	"fmt"
)

// JSONFormatter formats profiles as JSON.
type JSONFormatter struct{}

// FormatProfile formats a single profile as JSON.
func (f *JSONFormatter) FormatProfile(e Entry) (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal profile to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatProfileList formats profiles as a JSON array.
func (f *JSONFormatter) FormatProfileList(entries []Entry) (string, error) {
	if len(entries) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal profiles to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
