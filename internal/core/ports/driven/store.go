package driven

import (
	"context"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// VerdictStore persists source documents and their ingest status.
type VerdictStore interface {
	// SaveVerdict stores or updates a verdict.
	SaveVerdict(ctx context.Context, v *domain.Verdict) error

	// GetVerdict retrieves a verdict by ID.
	GetVerdict(ctx context.Context, id string) (*domain.Verdict, error)

	// FindByHash retrieves a verdict by content hash.
	FindByHash(ctx context.Context, hash string) (*domain.Verdict, error)

	// ListVerdicts returns verdicts, newest first.
	ListVerdicts(ctx context.Context, opts domain.ListOptions) ([]domain.Verdict, error)

	// DeleteVerdict removes a verdict and everything stored for it.
	DeleteVerdict(ctx context.Context, id string) error
}

// ExtractionStore persists extraction results.
type ExtractionStore interface {
	// SaveExtraction stores an extraction record.
	SaveExtraction(ctx context.Context, rec *domain.ExtractionRecord) error

	// LatestExtraction returns the newest extraction for a verdict.
	LatestExtraction(ctx context.Context, verdictID string) (*domain.ExtractionRecord, error)

	// ListExtractions returns the newest extraction per verdict.
	ListExtractions(ctx context.Context, opts domain.ListOptions) ([]domain.ExtractionRecord, error)

	// Stats summarises verdicts and extractions.
	Stats(ctx context.Context) (*domain.Stats, error)
}

// AnalysisStore persists analytics payloads.
type AnalysisStore interface {
	// SaveAnalysis stores an analysis record.
	SaveAnalysis(ctx context.Context, rec *domain.AnalysisRecord) error

	// ListAnalyses returns all analyses for a verdict.
	ListAnalyses(ctx context.Context, verdictID string) ([]domain.AnalysisRecord, error)
}

// ContentStore persists parsed document text.
type ContentStore interface {
	// SaveContent stores the text, replacing any earlier text of the same kind.
	SaveContent(ctx context.Context, c *domain.ParsedContent) error

	// GetContent returns the stored text, or domain.ErrNotFound.
	GetContent(ctx context.Context, verdictID, kind string) (*domain.ParsedContent, error)
}
