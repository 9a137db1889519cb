package driven

import (
	"context"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// EntityRecognizer runs named-entity recognition over text.
// This is an optional service backed by an external model.
type EntityRecognizer interface {
	// Recognize returns the aggregated entity spans in encounter order.
	// The call is a single blocking operation with no partial results.
	Recognize(ctx context.Context, text string) ([]domain.Entity, error)

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error
}
