// Package memory provides in-memory stores for tests and the memory
// storage driver. Nothing survives the process.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.VerdictStore    = (*Store)(nil)
	_ driven.ExtractionStore = (*Store)(nil)
	_ driven.AnalysisStore   = (*Store)(nil)
	_ driven.ContentStore    = (*Store)(nil)
)

// Store is an in-memory implementation of every store port.
type Store struct {
	mu          sync.RWMutex
	verdicts    map[string]domain.Verdict
	extractions []domain.ExtractionRecord
	analyses    map[string][]domain.AnalysisRecord
	contents    map[contentKey]domain.ParsedContent
}

type contentKey struct{ verdictID, kind string }

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		verdicts: make(map[string]domain.Verdict),
		analyses: make(map[string][]domain.AnalysisRecord),
		contents: make(map[contentKey]domain.ParsedContent),
	}
}

// SaveVerdict stores or updates a verdict.
func (s *Store) SaveVerdict(_ context.Context, v *domain.Verdict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdicts[v.ID] = *v
	return nil
}

// GetVerdict retrieves a verdict by ID.
func (s *Store) GetVerdict(_ context.Context, id string) (*domain.Verdict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.verdicts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

// FindByHash retrieves a verdict by content hash.
func (s *Store) FindByHash(_ context.Context, hash string) (*domain.Verdict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.verdicts {
		v := s.verdicts[id]
		if v.ContentHash == hash {
			return &v, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListVerdicts returns verdicts, newest first.
func (s *Store) ListVerdicts(_ context.Context, opts domain.ListOptions) ([]domain.Verdict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Verdict, 0, len(s.verdicts))
	for id := range s.verdicts {
		v := s.verdicts[id]
		if opts.Status != "" && v.Status != opts.Status {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, opts), nil
}

// DeleteVerdict removes a verdict with everything stored for it.
func (s *Store) DeleteVerdict(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.verdicts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.verdicts, id)
	delete(s.analyses, id)
	for k := range s.contents {
		if k.verdictID == id {
			delete(s.contents, k)
		}
	}

	kept := s.extractions[:0]
	for _, rec := range s.extractions {
		if rec.VerdictID != id {
			kept = append(kept, rec)
		}
	}
	s.extractions = kept
	return nil
}

// SaveExtraction stores an extraction record.
func (s *Store) SaveExtraction(_ context.Context, rec *domain.ExtractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extractions = append(s.extractions, *rec)
	return nil
}

// LatestExtraction returns the newest extraction for a verdict.
func (s *Store) LatestExtraction(_ context.Context, verdictID string) (*domain.ExtractionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.latest()[verdictID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// ListExtractions returns the newest extraction per verdict, newest first.
// A status filter applies to the owning verdict.
func (s *Store) ListExtractions(_ context.Context, opts domain.ListOptions) ([]domain.ExtractionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := s.latest()
	out := make([]domain.ExtractionRecord, 0, len(latest))
	for verdictID, rec := range latest {
		if opts.Status != "" && s.verdicts[verdictID].Status != opts.Status {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, opts), nil
}

// Stats summarises verdicts and extractions.
func (s *Store) Stats(_ context.Context) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.Stats{
		Verdicts:    len(s.verdicts),
		ByStatus:    make(map[domain.VerdictStatus]int),
		Extractions: len(s.extractions),
	}
	for id := range s.verdicts {
		stats.ByStatus[s.verdicts[id].Status]++
	}

	latest := s.latest()
	if len(latest) > 0 {
		var total float64
		for _, rec := range latest {
			total += rec.Confidence
		}
		stats.AvgConfidence = total / float64(len(latest))
	}
	return stats, nil
}

// SaveAnalysis stores an analysis record.
func (s *Store) SaveAnalysis(_ context.Context, rec *domain.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[rec.VerdictID] = append(s.analyses[rec.VerdictID], *rec)
	return nil
}

// ListAnalyses returns all analyses for a verdict in insertion order.
func (s *Store) ListAnalyses(_ context.Context, verdictID string) ([]domain.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AnalysisRecord(nil), s.analyses[verdictID]...), nil
}

// SaveContent stores parsed text, replacing text of the same kind.
func (s *Store) SaveContent(_ context.Context, c *domain.ParsedContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[contentKey{c.VerdictID, c.Kind}] = *c
	return nil
}

// GetContent returns stored parsed text.
func (s *Store) GetContent(_ context.Context, verdictID, kind string) (*domain.ParsedContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contents[contentKey{verdictID, kind}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// latest returns the newest extraction per verdict. Later saves win ties.
// Callers hold the lock.
func (s *Store) latest() map[string]domain.ExtractionRecord {
	out := make(map[string]domain.ExtractionRecord)
	for _, rec := range s.extractions {
		prev, ok := out[rec.VerdictID]
		if !ok || !rec.CreatedAt.Before(prev.CreatedAt) {
			out[rec.VerdictID] = rec
		}
	}
	return out
}

func paginate[T any](items []T, opts domain.ListOptions) []T {
	if opts.Offset > 0 {
		if opts.Offset >= len(items) {
			return []T{}
		}
		items = items[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}
