// Package jsonl exports extraction results as JSON lines, one result
// mapping per verdict.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Exporter writes JSON lines.
type Exporter struct{}

// New creates a JSON lines exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns "jsonl".
func (e *Exporter) Format() string {
	return "jsonl"
}

type line struct {
	VerdictID  string                   `json:"verdict_id"`
	Mode       domain.ExtractionMode    `json:"mode"`
	Strategy   domain.StrategyName      `json:"strategy,omitempty"`
	Confidence float64                  `json:"confidence"`
	Result     *domain.ExtractionResult `json:"result"`
}

// Export writes one line per record. The summary is not part of the stream.
func (e *Exporter) Export(ctx context.Context, w io.Writer, records []domain.ExtractionRecord, _ *domain.Summary) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(line{
			VerdictID:  rec.VerdictID,
			Mode:       rec.Mode,
			Strategy:   rec.Strategy,
			Confidence: rec.Confidence,
			Result:     rec.Result,
		}); err != nil {
			return fmt.Errorf("encode %s: %w", rec.VerdictID, err)
		}
	}
	return bw.Flush()
}
