package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// ResultService reads stored verdicts and extraction results.
type ResultService interface {
	// List returns the latest extraction per verdict.
	List(ctx context.Context, opts domain.ListOptions) ([]domain.ExtractionRecord, error)

	// Get returns a verdict with its latest extraction and analyses.
	Get(ctx context.Context, verdictID string) (*VerdictDetails, error)

	// Stats summarises the store.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Summary aggregates all latest extractions.
	Summary(ctx context.Context) (*domain.Summary, error)

	// Report renders the aggregate summary as text.
	Report(ctx context.Context) (string, error)

	// Export writes all latest extractions in the given format.
	Export(ctx context.Context, format string, w io.Writer) error
}

// VerdictDetails is a verdict with everything stored for it.
type VerdictDetails struct {
	Verdict    domain.Verdict
	Extraction *domain.ExtractionRecord
	Analyses   []domain.AnalysisRecord
}
