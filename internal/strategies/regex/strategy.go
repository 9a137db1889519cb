// Package regex implements the pattern pipeline strategy: ordered primary
// patterns over the full text, then a bounded line-scan for each field
// the primary patterns missed.
package regex

import (
	"context"
	"strings"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/logger"
	"github.com/custodia-labs/verdict-cli/internal/patterns"
)

// DefaultWindow is the number of leading lines the line-scan reads.
const DefaultWindow = 20

// primaryMatch is swapped in tests to simulate field failures.
var primaryMatch = Match

// Ensure Strategy implements the interface.
var _ driven.Strategy = (*Strategy)(nil)

// Strategy runs the compiled registry over document text.
// It holds no per-document state and is safe for concurrent use.
type Strategy struct {
	registry *patterns.Registry
	window   int
}

// New creates a regex strategy. A non-positive window uses DefaultWindow.
func New(registry *patterns.Registry, window int) *Strategy {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Strategy{registry: registry, window: window}
}

// Name returns the strategy name.
func (s *Strategy) Name() domain.StrategyName {
	return domain.StrategyRegex
}

// Window returns the line-scan window.
func (s *Strategy) Window() int {
	return s.window
}

// Extract returns the raw mapping for one document. Values are trimmed
// but otherwise uncleaned. The verdict id mirrors the case number.
func (s *Strategy) Extract(ctx context.Context, docID, text string) (domain.RawFields, error) {
	if strings.TrimSpace(text) == "" {
		return domain.RawFields{}, nil
	}

	lines := splitLines(text)
	out := make(domain.RawFields, 0, s.registry.Len()+1)

	for _, f := range s.registry.Fields() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if v, ok := s.extractField(docID, text, lines, f); ok {
			out.Set(string(f.Name()), domain.Text(v))
		}
	}

	if v, ok := out.Get(string(domain.FieldCaseNumber)); ok {
		if _, has := out.Get(string(domain.FieldVerdictID)); !has {
			out.Set(string(domain.FieldVerdictID), v)
		}
	}

	return out, nil
}

// extractField isolates one field: a failure is logged and leaves only
// that field absent.
func (s *Strategy) extractField(docID, text string, lines []string, f *patterns.Field) (value string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("extract %s for %s: %v", f.Name(), docID, r)
			value, ok = "", false
		}
	}()

	if v, found := primaryMatch(text, f); found {
		logger.Debug("%s: primary pattern hit in %s", f.Name(), docID)
		return v, true
	}
	if v, found := ScanLines(lines, f, s.window); found {
		logger.Debug("%s: line-scan hit in %s", f.Name(), docID)
		return v, true
	}
	return "", false
}
