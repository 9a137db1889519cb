package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// Exporter writes stored extraction results in an external format.
type Exporter interface {
	// Format returns the format name, e.g. "xlsx".
	Format() string

	// Export writes records and their aggregate summary to w.
	Export(ctx context.Context, w io.Writer, records []domain.ExtractionRecord, summary *domain.Summary) error
}
