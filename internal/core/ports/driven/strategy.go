package driven

import (
	"context"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// Strategy is one complete, independently swappable field-extraction
// implementation. Strategies are stateless per call and safe for
// concurrent use across documents.
type Strategy interface {
	// Name returns the strategy name used in configuration and diagnostics.
	Name() domain.StrategyName

	// Extract returns the raw field mapping for one document.
	// docID is opaque and only used for logging.
	// Blank text yields an empty mapping and no error.
	Extract(ctx context.Context, docID, text string) (domain.RawFields, error)
}
