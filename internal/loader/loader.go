// Package loader reads invoice records from structured files. JSON and YAML
// sources are supported; the format is detected from the payload itself so
// callers do not have to trust file extensions.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rezonia/edifact-generator/internal/model"
)

// Format identifies the serialization of a record payload.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// DetectFormat inspects the payload and decides how to decode it. Anything
// that does not look like a JSON document is treated as YAML.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Load decodes an invoice record from JSON or YAML bytes.
func Load(data []byte) (*model.InvoiceRecord, error) {
	switch DetectFormat(data) {
	case FormatJSON:
		var rec model.InvoiceRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode JSON record: %w", err)
		}
		return &rec, nil
	case FormatYAML:
		// Decode YAML through JSON so decimal fields use their JSON
		// unmarshaler; yaml.v3 cannot populate decimal.Decimal directly.
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode YAML record: %w", err)
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode YAML record: %w", err)
		}
		var rec model.InvoiceRecord
		if err := json.Unmarshal(encoded, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode YAML record: %w", err)
		}
		return &rec, nil
	default:
		return nil, fmt.Errorf("empty record payload")
	}
}

// LoadFile reads and decodes an invoice record file.
func LoadFile(path string) (*model.InvoiceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Load(data)
}
