package driving

import (
	"context"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// IngestService parses, extracts and stores verdict files.
type IngestService interface {
	// IngestFile ingests one file from local disk.
	IngestFile(ctx context.Context, path string) (*IngestReport, error)

	// IngestRaw ingests one already-fetched document.
	IngestRaw(ctx context.Context, raw *domain.RawDocument) (*IngestReport, error)

	// IngestAll ingests every document of the configured source.
	// Per-document failures are reported, never returned as the error.
	IngestAll(ctx context.Context) ([]IngestReport, error)

	// Reextract extracts a stored verdict again from its parsed text.
	Reextract(ctx context.Context, verdictID string) (*IngestReport, error)
}

// IngestReport describes what happened to one document.
type IngestReport struct {
	// SourceID is the document identifier.
	SourceID string

	// VerdictID is the stored verdict, empty if nothing was stored.
	VerdictID string

	// Status is the final ingest status.
	Status domain.VerdictStatus

	// Skipped is true when the content hash was already stored.
	Skipped bool

	// Result is the extraction result when extraction ran.
	Result *domain.ExtractionResult

	// Err holds the failure, if any.
	Err error
}
