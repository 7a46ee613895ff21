// File: internal/report/envelope.go
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/combicycle/ccgt/internal/cycle"
)

// Constants for tool identification in the report envelope.
const ToolName = "ccgt"

// Envelope wraps one solve so a report is self-describing: which tool and
// version produced it, from which design, and when.
type Envelope struct {
	RunID       string        `json:"runId"`
	Tool        string        `json:"tool"`
	Version     string        `json:"version"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Params      cycle.Params  `json:"params"`
	Result      *cycle.Result `json:"result"`
}

// NewEnvelope stamps a solve result with a fresh run ID and timestamp.
func NewEnvelope(version string, params cycle.Params, result *cycle.Result) *Envelope {
	return &Envelope{
		RunID:       uuid.New().String(),
		Tool:        ToolName,
		Version:     version,
		GeneratedAt: time.Now().UTC(),
		Params:      params,
		Result:      result,
	}
}
