package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
	"github.com/custodia-labs/verdict-cli/internal/logger"
	"github.com/custodia-labs/verdict-cli/internal/results"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// EntityAnalyzer maps recognised entities onto fields and reports the
// binary NER confidence alongside.
type EntityAnalyzer interface {
	Analyze(ctx context.Context, docID, text string) (domain.RawFields, float64, error)
}

// StrategySelector runs competing strategies and keeps the best mapping.
type StrategySelector interface {
	Select(ctx context.Context, docID, text string) *domain.Selection
}

// summaryFields are the fields shown in the one-line summary, in order.
var summaryFields = []domain.FieldName{
	domain.FieldCourtName,
	domain.FieldJudgeName,
	domain.FieldCaseNumber,
	domain.FieldVerdictID,
	domain.FieldVerdictDate,
	domain.FieldParties,
}

// ExtractionService turns document text into scored results.
type ExtractionService struct {
	settings   domain.ExtractorSettings
	pipeline   driven.Strategy
	analyzer   EntityAnalyzer
	selector   StrategySelector
	normalizer *results.Normalizer
	validator  *results.Validator
	now        func() time.Time
}

// ExtractionOption configures an ExtractionService.
type ExtractionOption func(*ExtractionService)

// WithEntityAnalyzer enables the ner mode.
func WithEntityAnalyzer(a EntityAnalyzer) ExtractionOption {
	return func(s *ExtractionService) { s.analyzer = a }
}

// WithSelector enables the select mode.
func WithSelector(sel StrategySelector) ExtractionOption {
	return func(s *ExtractionService) { s.selector = sel }
}

// WithValidator checks every result against the result schema before
// it is returned.
func WithValidator(v *results.Validator) ExtractionOption {
	return func(s *ExtractionService) { s.validator = v }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ExtractionOption {
	return func(s *ExtractionService) { s.now = now }
}

// NewExtractionService creates an extraction service. pipeline is the
// regex strategy used in pipeline mode; a nil normalizer uses defaults.
func NewExtractionService(
	settings domain.ExtractorSettings,
	pipeline driven.Strategy,
	normalizer *results.Normalizer,
	opts ...ExtractionOption,
) *ExtractionService {
	if normalizer == nil {
		normalizer = results.NewNormalizer(nil, nil, settings.MaxValueLength)
	}
	if !settings.Mode.IsValid() {
		settings.Mode = domain.ModePipeline
	}
	s := &ExtractionService{
		settings:   settings,
		pipeline:   pipeline,
		normalizer: normalizer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the configured extraction mode.
func (s *ExtractionService) Mode() domain.ExtractionMode {
	return s.settings.Mode
}

// Extract runs the configured mode over one document.
func (s *ExtractionService) Extract(ctx context.Context, sourceID, text string) (*domain.ExtractionResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.NewEmptyResult(sourceID, s.now()), nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		result *domain.ExtractionResult
		err    error
	)
	switch s.settings.Mode {
	case domain.ModeNER:
		result, err = s.extractNER(ctx, sourceID, text)
	case domain.ModeSelect:
		result, err = s.extractSelect(ctx, sourceID, text)
	default:
		result, err = s.extractPipeline(ctx, sourceID, text)
	}
	if err != nil {
		return nil, err
	}

	if s.validator != nil {
		if err := s.validator.ValidateResult(result); err != nil {
			return nil, fmt.Errorf("validate result for %s: %w", sourceID, err)
		}
	}

	logger.Debug("extracted %d fields from %s (mode %s, confidence %.2f)",
		result.Filled(), sourceID, s.settings.Mode, result.Confidence)
	return result, nil
}

// Select runs every declared strategy and returns the raw selection.
func (s *ExtractionService) Select(ctx context.Context, sourceID, text string) (*domain.Selection, error) {
	if s.selector == nil {
		return nil, fmt.Errorf("%w: strategy selector", domain.ErrNotConfigured)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.selector.Select(ctx, sourceID, text), nil
}

func (s *ExtractionService) extractPipeline(ctx context.Context, sourceID, text string) (*domain.ExtractionResult, error) {
	if s.pipeline == nil {
		return nil, fmt.Errorf("%w: regex strategy", domain.ErrNotConfigured)
	}
	raw, err := s.pipeline.Extract(ctx, sourceID, text)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", sourceID, err)
	}
	return s.normalizer.Result(sourceID, raw, s.pipeline.Name(), s.now()), nil
}

// extractNER keeps the model's binary confidence instead of the fill ratio.
// A failing NER service degrades to the empty result rather than an error.
func (s *ExtractionService) extractNER(ctx context.Context, sourceID, text string) (*domain.ExtractionResult, error) {
	if s.analyzer == nil {
		return nil, domain.ErrNERUnavailable
	}
	raw, confidence, err := s.analyzer.Analyze(ctx, sourceID, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("extract %s: %w", sourceID, ctxErr)
		}
		logger.Warn("NER extraction failed for %s, returning empty result: %v", sourceID, err)
		return domain.NewEmptyResult(sourceID, s.now()), nil
	}
	return s.normalizer.ResultWithConfidence(sourceID, raw, domain.StrategyNER, s.now(), confidence), nil
}

func (s *ExtractionService) extractSelect(ctx context.Context, sourceID, text string) (*domain.ExtractionResult, error) {
	if s.selector == nil {
		return nil, fmt.Errorf("%w: strategy selector", domain.ErrNotConfigured)
	}
	sel := s.selector.Select(ctx, sourceID, text)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract %s: %w", sourceID, err)
	}
	return s.normalizer.Result(sourceID, sel.Fields, sel.Best, s.now()), nil
}

func (s *ExtractionService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.settings.Timeout > 0 {
		return context.WithTimeout(ctx, s.settings.Timeout)
	}
	return context.WithCancel(ctx)
}

// Summary renders "Court: … | Judge: … | Confidence: 0.00", leaving out
// absent fields, or "Extraction failed: …" when err is set.
func (s *ExtractionService) Summary(result *domain.ExtractionResult, err error) string {
	return SummaryLine(result, err)
}

// SummaryLine is the stateless form of ExtractionService.Summary.
func SummaryLine(result *domain.ExtractionResult, err error) string {
	if err != nil {
		return "Extraction failed: " + err.Error()
	}
	if result == nil {
		return "Extraction failed: no result"
	}

	parts := make([]string, 0, len(summaryFields)+1)
	for _, f := range summaryFields {
		if v := result.Value(f); v != "" {
			parts = append(parts, f.Label()+": "+v)
		}
	}
	parts = append(parts, fmt.Sprintf("Confidence: %.2f", result.Confidence))
	return strings.Join(parts, " | ")
}
