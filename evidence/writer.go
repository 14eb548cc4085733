package evidence

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/NoliDD/assessment-tool/pkg/metrics"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write renders the bundle in the named format.
func Write(w io.Writer, b *Bundle, format string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, b)
	case FormatYAML:
		return WriteYAML(w, b)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteJSON writes the bundle as indented JSON. Field order follows the
// bundle layout, so identical bundles serialize to identical bytes.
func WriteJSON(w io.Writer, b *Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode evidence json: %w", err)
	}
	metrics.RecordEvidenceExport(FormatJSON)
	return nil
}

// WriteYAML writes the bundle as YAML.
func WriteYAML(w io.Writer, b *Bundle) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode evidence yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode evidence yaml: %w", err)
	}
	metrics.RecordEvidenceExport(FormatYAML)
	return nil
}
