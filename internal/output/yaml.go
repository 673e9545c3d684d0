package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats profiles as YAML.
type YAMLFormatter struct{}

// FormatProfile formats a single profile as YAML.
func (f *YAMLFormatter) FormatProfile(e Entry) (string, error) {
	data, err := yaml.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to marshal profile to YAML: %w", err)
	}

	return string(data), nil
}

// FormatProfileList formats profiles as a YAML stream (multiple documents
// separated by ---).
func (f *YAMLFormatter) FormatProfileList(entries []Entry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	var buf bytes.Buffer

	for i, e := range entries {
		data, err := yaml.Marshal(e)
		if err != nil {
			return "", fmt.Errorf("failed to marshal profile %s to YAML: %w", e.Name, err)
		}

		if i > 0 {
			buf.WriteString("---\n")
		}

		buf.Write(data)
	}

	return buf.String(), nil
}
