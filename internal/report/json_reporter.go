// File: internal/report/json_reporter.go
package report

import (
	"fmt"
	"io"

	json "github.com/json-iterator/go"
)

// JSONReporter writes one indented JSON document per envelope.
type JSONReporter struct {
	writer io.WriteCloser
}

// NewJSONReporter creates a reporter that owns the given writer.
func NewJSONReporter(w io.WriteCloser) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Write serializes the envelope to the underlying writer.
func (r *JSONReporter) Write(env *Envelope) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Close releases the underlying writer.
func (r *JSONReporter) Close() error {
	return r.writer.Close()
}
