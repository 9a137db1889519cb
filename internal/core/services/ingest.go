package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/verdict-cli/internal/analytics"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
	"github.com/custodia-labs/verdict-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultWorkers bounds batch parallelism when none is configured.
const DefaultWorkers = 4

// IngestService parses, extracts and stores verdict files.
type IngestService struct {
	source      driven.DocumentSource
	normalisers driven.NormaliserRegistry
	extraction  driving.ExtractionService
	verdicts    driven.VerdictStore
	extractions driven.ExtractionStore
	analyses    driven.AnalysisStore
	contents    driven.ContentStore
	workers     int
	now         func() time.Time
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithContentStore keeps the parsed text of every document so it can be
// re-extracted later.
func WithContentStore(c driven.ContentStore) IngestOption {
	return func(s *IngestService) { s.contents = c }
}

// NewIngestService creates an ingest service. source and analyses are
// optional: without a source IngestAll fails, and without an analysis
// store no analytics are saved.
func NewIngestService(
	source driven.DocumentSource,
	normalisers driven.NormaliserRegistry,
	extraction driving.ExtractionService,
	verdicts driven.VerdictStore,
	extractions driven.ExtractionStore,
	analyses driven.AnalysisStore,
	workers int,
	opts ...IngestOption,
) *IngestService {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	s := &IngestService{
		source:      source,
		normalisers: normalisers,
		extraction:  extraction,
		verdicts:    verdicts,
		extractions: extractions,
		analyses:    analyses,
		workers:     workers,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestFile reads one file from disk and ingests it.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*driving.IngestReport, error) {
	ext := filepath.Ext(path)
	if !domain.SupportedExt(ext) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	uri := path
	if abs, err := filepath.Abs(path); err == nil {
		uri = "file://" + abs
	}

	return s.IngestRaw(ctx, &domain.RawDocument{
		SourceID: path,
		URI:      uri,
		MIMEType: domain.MIMETypeForExt(ext),
		Content:  content,
		Metadata: map[string]any{"filename": filepath.Base(path)},
	})
}

// IngestRaw stores, parses and extracts one document. A document whose
// content hash is already stored and extracted is skipped; one that
// failed or never finished is processed again under its existing ID.
// Parse and extraction failures mark the verdict failed and are
// returned in the report and as the error.
func (s *IngestService) IngestRaw(ctx context.Context, raw *domain.RawDocument) (*driving.IngestReport, error) {
	report := &driving.IngestReport{SourceID: raw.SourceID}

	hash := raw.Hash()
	now := s.now()
	existing, err := s.verdicts.FindByHash(ctx, hash)
	var v *domain.Verdict
	switch {
	case err == nil && existing.Status == domain.StatusExtracted:
		logger.Debug("skip %s: already stored as %s", raw.SourceID, existing.ID)
		report.VerdictID = existing.ID
		report.Status = existing.Status
		report.Skipped = true
		return report, nil
	case err == nil:
		logger.Info("retry %s: stored as %s with status %s", raw.SourceID, existing.ID, existing.Status)
		v = existing
		v.SourceID = raw.SourceID
		v.URI = raw.URI
		v.Error = ""
		v.Status = domain.StatusDownloaded
		v.UpdatedAt = now
	case errors.Is(err, domain.ErrNotFound):
		v = &domain.Verdict{
			ID:          uuid.NewString(),
			SourceID:    raw.SourceID,
			URI:         raw.URI,
			FileType:    raw.FileType(),
			Size:        int64(len(raw.Content)),
			ContentHash: hash,
			Status:      domain.StatusDownloaded,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	default:
		return nil, fmt.Errorf("find by hash: %w", err)
	}

	if err := s.verdicts.SaveVerdict(ctx, v); err != nil {
		return nil, fmt.Errorf("save verdict: %w", err)
	}
	report.VerdictID = v.ID

	parsed, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return s.fail(ctx, report, v, fmt.Errorf("parse %s: %w", raw.SourceID, err))
	}
	if err := s.setStatus(ctx, v, domain.StatusParsed); err != nil {
		return nil, err
	}
	content := parsed.Document.Content

	s.saveContent(ctx, v.ID, content)
	s.saveAnalysis(ctx, v.ID, content)

	return s.extract(ctx, report, v, content)
}

// Reextract runs extraction again over the stored parsed text of a
// verdict, without fetching or parsing the source.
func (s *IngestService) Reextract(ctx context.Context, verdictID string) (*driving.IngestReport, error) {
	if s.contents == nil {
		return nil, fmt.Errorf("%w: content store", domain.ErrNotConfigured)
	}
	v, err := s.verdicts.GetVerdict(ctx, verdictID)
	if err != nil {
		return nil, fmt.Errorf("get verdict %s: %w", verdictID, err)
	}
	c, err := s.contents.GetContent(ctx, verdictID, domain.ContentFullText)
	if err != nil {
		return nil, fmt.Errorf("parsed content of %s: %w", verdictID, err)
	}

	report := &driving.IngestReport{SourceID: v.SourceID, VerdictID: v.ID}
	v.Error = ""
	return s.extract(ctx, report, v, c.Text)
}

// extract scores content, stores the record and marks the verdict extracted.
func (s *IngestService) extract(ctx context.Context, report *driving.IngestReport, v *domain.Verdict, content string) (*driving.IngestReport, error) {
	result, err := s.extraction.Extract(ctx, v.SourceID, content)
	if err != nil {
		return s.fail(ctx, report, v, err)
	}

	rec := &domain.ExtractionRecord{
		ID:         uuid.NewString(),
		VerdictID:  v.ID,
		Mode:       s.extraction.Mode(),
		Strategy:   result.Strategy,
		Confidence: result.Confidence,
		Result:     result,
		CreatedAt:  s.now(),
	}
	if err := s.extractions.SaveExtraction(ctx, rec); err != nil {
		return nil, fmt.Errorf("save extraction: %w", err)
	}
	if err := s.setStatus(ctx, v, domain.StatusExtracted); err != nil {
		return nil, err
	}

	report.Status = domain.StatusExtracted
	report.Result = result
	return report, nil
}

// IngestAll ingests every document of the source with bounded
// parallelism. Reports are returned in listing order.
func (s *IngestService) IngestAll(ctx context.Context) ([]driving.IngestReport, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: document source", domain.ErrNotConfigured)
	}

	ids, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	logger.Section(s.source.Name())
	logger.Info("Ingesting %d documents from %s", len(ids), s.source.Name())

	reports := make([]driving.IngestReport, len(ids))
	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, id := range ids {
		g.Go(func() error {
			reports[i] = s.ingestOne(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	return reports, ctx.Err()
}

func (s *IngestService) ingestOne(ctx context.Context, id string) driving.IngestReport {
	if err := ctx.Err(); err != nil {
		return driving.IngestReport{SourceID: id, Status: domain.StatusFailed, Err: err}
	}

	raw, err := s.source.Fetch(ctx, id)
	if err != nil {
		logger.Warn("fetch %s: %v", id, err)
		return driving.IngestReport{SourceID: id, Status: domain.StatusFailed, Err: err}
	}

	report, err := s.IngestRaw(ctx, raw)
	if report == nil {
		report = &driving.IngestReport{SourceID: id, Status: domain.StatusFailed}
	}
	if err != nil {
		report.Err = err
	}
	return *report
}

func (s *IngestService) fail(ctx context.Context, report *driving.IngestReport, v *domain.Verdict, cause error) (*driving.IngestReport, error) {
	logger.Warn("ingest %s failed: %v", v.SourceID, cause)
	v.Error = cause.Error()
	if err := s.setStatus(ctx, v, domain.StatusFailed); err != nil {
		logger.Error("mark %s failed: %v", v.ID, err)
	}
	report.Status = domain.StatusFailed
	report.Err = cause
	return report, cause
}

func (s *IngestService) setStatus(ctx context.Context, v *domain.Verdict, status domain.VerdictStatus) error {
	v.Status = status
	v.UpdatedAt = s.now()
	if err := s.verdicts.SaveVerdict(ctx, v); err != nil {
		return fmt.Errorf("save verdict status: %w", err)
	}
	return nil
}

// saveContent keeps the parsed text. Failures are logged only.
func (s *IngestService) saveContent(ctx context.Context, verdictID, content string) {
	if s.contents == nil {
		return
	}
	c := &domain.ParsedContent{
		VerdictID: verdictID,
		Kind:      domain.ContentFullText,
		Text:      content,
		CreatedAt: s.now(),
	}
	if err := s.contents.SaveContent(ctx, c); err != nil {
		logger.Warn("save content for %s: %v", verdictID, err)
	}
}

// saveAnalysis stores the document analytics. Failures are logged only.
func (s *IngestService) saveAnalysis(ctx context.Context, verdictID, content string) {
	if s.analyses == nil {
		return
	}
	a := analytics.Analyze(content, s.now())
	if a == nil {
		return
	}
	data, err := json.Marshal(a)
	if err != nil {
		logger.Warn("encode analysis for %s: %v", verdictID, err)
		return
	}
	rec := &domain.AnalysisRecord{
		ID:        uuid.NewString(),
		VerdictID: verdictID,
		Kind:      analytics.KindComprehensive,
		Data:      data,
		CreatedAt: s.now(),
	}
	if err := s.analyses.SaveAnalysis(ctx, rec); err != nil {
		logger.Warn("save analysis for %s: %v", verdictID, err)
	}
}
