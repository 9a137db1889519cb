package driven

import (
	"context"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// DocumentSource lists and fetches verdict files for batch ingest.
type DocumentSource interface {
	// Name identifies the source in logs, e.g. "local:downloads".
	Name() string

	// List returns the source ids of all supported documents.
	List(ctx context.Context) ([]string, error)

	// Fetch reads one document.
	Fetch(ctx context.Context, sourceID string) (*domain.RawDocument, error)
}
