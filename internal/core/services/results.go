package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/custodia-labs/verdict-cli/internal/analytics"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

// Ensure ResultService implements the interface.
var _ driving.ResultService = (*ResultService)(nil)

// ResultService reads stored verdicts and extraction results.
type ResultService struct {
	verdicts    driven.VerdictStore
	extractions driven.ExtractionStore
	analyses    driven.AnalysisStore
	exporters   map[string]driven.Exporter
	threshold   float64
	now         func() time.Time
}

// NewResultService creates a result service. threshold flags low
// confidence results in summaries.
func NewResultService(
	verdicts driven.VerdictStore,
	extractions driven.ExtractionStore,
	analyses driven.AnalysisStore,
	threshold float64,
	exporters ...driven.Exporter,
) *ResultService {
	byFormat := make(map[string]driven.Exporter, len(exporters))
	for _, e := range exporters {
		byFormat[e.Format()] = e
	}
	return &ResultService{
		verdicts:    verdicts,
		extractions: extractions,
		analyses:    analyses,
		exporters:   byFormat,
		threshold:   threshold,
		now:         time.Now,
	}
}

// Formats returns the registered export formats, sorted.
func (s *ResultService) Formats() []string {
	out := make([]string, 0, len(s.exporters))
	for f := range s.exporters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// List returns the latest extraction per verdict.
func (s *ResultService) List(ctx context.Context, opts domain.ListOptions) ([]domain.ExtractionRecord, error) {
	return s.extractions.ListExtractions(ctx, opts)
}

// Get returns a verdict with its latest extraction and analyses.
// A verdict that never reached extraction has a nil Extraction.
func (s *ResultService) Get(ctx context.Context, verdictID string) (*driving.VerdictDetails, error) {
	v, err := s.verdicts.GetVerdict(ctx, verdictID)
	if err != nil {
		return nil, err
	}

	details := &driving.VerdictDetails{Verdict: *v}

	rec, err := s.extractions.LatestExtraction(ctx, verdictID)
	switch {
	case err == nil:
		details.Extraction = rec
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("latest extraction: %w", err)
	}

	if s.analyses != nil {
		analyses, err := s.analyses.ListAnalyses(ctx, verdictID)
		if err != nil {
			return nil, fmt.Errorf("list analyses: %w", err)
		}
		details.Analyses = analyses
	}
	return details, nil
}

// Stats summarises the store.
func (s *ResultService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.extractions.Stats(ctx)
}

// Summary aggregates all latest extractions and the stored document
// analytics.
func (s *ResultService) Summary(ctx context.Context) (*domain.Summary, error) {
	recs, err := s.extractions.ListExtractions(ctx, domain.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list extractions: %w", err)
	}
	summary := analytics.Aggregate(recs, s.threshold)

	corpus, err := s.corpus(ctx)
	if err != nil {
		return nil, err
	}
	summary.Corpus = corpus
	return summary, nil
}

func (s *ResultService) corpus(ctx context.Context) (domain.CorpusStats, error) {
	verdicts, err := s.verdicts.ListVerdicts(ctx, domain.ListOptions{})
	if err != nil {
		return domain.CorpusStats{}, fmt.Errorf("list verdicts: %w", err)
	}
	byVerdict := make(map[string][]domain.AnalysisRecord, len(verdicts))
	if s.analyses != nil {
		for i := range verdicts {
			recs, err := s.analyses.ListAnalyses(ctx, verdicts[i].ID)
			if err != nil {
				return domain.CorpusStats{}, fmt.Errorf("list analyses: %w", err)
			}
			byVerdict[verdicts[i].ID] = recs
		}
	}
	return analytics.AggregateCorpus(verdicts, byVerdict), nil
}

// Report renders the aggregate summary as text.
func (s *ResultService) Report(ctx context.Context) (string, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return "", err
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return "", fmt.Errorf("stats: %w", err)
	}
	return analytics.RenderReport(summary, stats, s.now()), nil
}

// Export writes all latest extractions with the named exporter.
func (s *ResultService) Export(ctx context.Context, format string, w io.Writer) error {
	exp, ok := s.exporters[format]
	if !ok {
		return fmt.Errorf("%w: export format %q", domain.ErrUnsupportedType, format)
	}
	recs, err := s.extractions.ListExtractions(ctx, domain.ListOptions{})
	if err != nil {
		return fmt.Errorf("list extractions: %w", err)
	}
	return exp.Export(ctx, w, recs, analytics.Aggregate(recs, s.threshold))
}
