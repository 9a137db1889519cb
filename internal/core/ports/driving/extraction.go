package driving

import (
	"context"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// ExtractionService turns document text into scored extraction results.
type ExtractionService interface {
	// Extract runs the configured mode over one document's text.
	// Blank text yields the all-absent result with zero confidence.
	Extract(ctx context.Context, sourceID, text string) (*domain.ExtractionResult, error)

	// Select runs every declared strategy and returns the raw selection
	// with per-strategy scores, without normalising the winner.
	Select(ctx context.Context, sourceID, text string) (*domain.Selection, error)

	// Mode returns the configured extraction mode.
	Mode() domain.ExtractionMode

	// Summary renders a one-line human-readable summary of a result,
	// or the failure when err is set.
	Summary(result *domain.ExtractionResult, err error) string
}
