// Package render writes reports and located sections for humans and tools.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/law-makers/wom/pkg/models"
)

// WriteJSON writes the report as a single JSON document. Non-ASCII text and
// URLs are written as-is rather than escaped.
func WriteJSON(w io.Writer, report *models.Report, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
