package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	result    *domain.ExtractionResult
	selection *domain.Selection
	err       error
	lastText  string
	calls     int
}

func (m *mockExtractionService) Extract(_ context.Context, _ string, text string) (*domain.ExtractionResult, error) {
	m.lastText = text
	m.calls++
	return m.result, m.err
}

func (m *mockExtractionService) Select(_ context.Context, _, _ string) (*domain.Selection, error) {
	return m.selection, m.err
}

func (m *mockExtractionService) Mode() domain.ExtractionMode {
	return domain.ModePipeline
}

func (m *mockExtractionService) Summary(result *domain.ExtractionResult, err error) string {
	if err != nil {
		return "Extraction failed: " + err.Error()
	}
	return "Court: " + result.Value(domain.FieldCourtName)
}

// mockResultService is a mock implementation of driving.ResultService.
type mockResultService struct {
	records  []domain.ExtractionRecord
	details  *driving.VerdictDetails
	report   string
	err      error
	lastOpts domain.ListOptions
}

func (m *mockResultService) List(_ context.Context, opts domain.ListOptions) ([]domain.ExtractionRecord, error) {
	m.lastOpts = opts
	return m.records, m.err
}

func (m *mockResultService) Get(_ context.Context, _ string) (*driving.VerdictDetails, error) {
	return m.details, m.err
}

func (m *mockResultService) Stats(_ context.Context) (*domain.Stats, error) {
	return &domain.Stats{}, m.err
}

func (m *mockResultService) Summary(_ context.Context) (*domain.Summary, error) {
	return domain.NewSummary(), m.err
}

func (m *mockResultService) Report(_ context.Context) (string, error) {
	return m.report, m.err
}

func (m *mockResultService) Export(_ context.Context, _ string, _ io.Writer) error {
	return m.err
}

func newTestServer(ext *mockExtractionService, res *mockResultService) (*Server, error) {
	if ext == nil {
		ext = &mockExtractionService{}
	}
	if res == nil {
		res = &mockResultService{}
	}
	return NewServer(&Ports{Extraction: ext, Results: res})
}
