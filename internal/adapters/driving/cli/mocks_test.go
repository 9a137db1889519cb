package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
	"github.com/custodia-labs/verdict-cli/internal/patterns"
)

type mockExtraction struct {
	result  *domain.ExtractionResult
	err     error
	gotID   string
	gotText string
}

func (m *mockExtraction) Extract(_ context.Context, id, text string) (*domain.ExtractionResult, error) {
	m.gotID = id
	m.gotText = text
	return m.result, m.err
}

func (m *mockExtraction) Select(context.Context, string, string) (*domain.Selection, error) {
	return &domain.Selection{}, m.err
}

func (m *mockExtraction) Mode() domain.ExtractionMode { return domain.ModePipeline }

func (m *mockExtraction) Summary(r *domain.ExtractionResult, err error) string {
	if err != nil {
		return "extraction failed: " + err.Error()
	}
	return fmt.Sprintf("%d fields, confidence %.2f", r.Filled(), r.Confidence)
}

type mockIngest struct {
	reports map[string]*driving.IngestReport
	all     []driving.IngestReport
	allErr  error
	raw     []string
}

func (m *mockIngest) IngestFile(_ context.Context, path string) (*driving.IngestReport, error) {
	if r, ok := m.reports[path]; ok {
		return r, r.Err
	}
	err := fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	return nil, err
}

func (m *mockIngest) IngestRaw(_ context.Context, raw *domain.RawDocument) (*driving.IngestReport, error) {
	m.raw = append(m.raw, raw.SourceID)
	return &driving.IngestReport{SourceID: raw.SourceID, VerdictID: "v-" + raw.SourceID, Status: domain.StatusExtracted}, nil
}

func (m *mockIngest) IngestAll(context.Context) ([]driving.IngestReport, error) {
	return m.all, m.allErr
}

func (m *mockIngest) Reextract(_ context.Context, verdictID string) (*driving.IngestReport, error) {
	if r, ok := m.reports[verdictID]; ok {
		return r, r.Err
	}
	return nil, fmt.Errorf("get verdict %s: %w", verdictID, domain.ErrNotFound)
}

type mockResults struct {
	records  []domain.ExtractionRecord
	details  *driving.VerdictDetails
	summary  *domain.Summary
	report   string
	err      error
	gotOpts  domain.ListOptions
	exported string
}

func (m *mockResults) List(_ context.Context, opts domain.ListOptions) ([]domain.ExtractionRecord, error) {
	m.gotOpts = opts
	return m.records, m.err
}

func (m *mockResults) Get(_ context.Context, id string) (*driving.VerdictDetails, error) {
	if m.details == nil || m.details.Verdict.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.details, nil
}

func (m *mockResults) Stats(context.Context) (*domain.Stats, error) {
	return &domain.Stats{}, m.err
}

func (m *mockResults) Summary(context.Context) (*domain.Summary, error) {
	return m.summary, m.err
}

func (m *mockResults) Report(context.Context) (string, error) {
	return m.report, m.err
}

func (m *mockResults) Export(_ context.Context, format string, w io.Writer) error {
	if format != "jsonl" {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedType, format)
	}
	m.exported = format
	_, err := io.WriteString(w, `{"verdict_id":"v1"}`+"\n")
	return err
}

type mockValidator struct {
	llmErr error
	nerErr error
}

func (m *mockValidator) ValidateLLM(*domain.LLMSettings) error { return m.llmErr }
func (m *mockValidator) ValidateNER(*domain.NERSettings) error { return m.nerErr }

type mockWatcher struct {
	ids    []string
	closed bool
}

func (m *mockWatcher) Watch(context.Context) (<-chan string, error) {
	ch := make(chan string, len(m.ids))
	for _, id := range m.ids {
		ch <- id
	}
	close(ch)
	return ch, nil
}

func (m *mockWatcher) Fetch(_ context.Context, id string) (*domain.RawDocument, error) {
	if strings.HasPrefix(id, "gone") {
		return nil, errors.New("file removed")
	}
	return &domain.RawDocument{SourceID: id, Content: []byte("text")}, nil
}

func (m *mockWatcher) Close() error {
	m.closed = true
	return nil
}

func testResult() *domain.ExtractionResult {
	return &domain.ExtractionResult{
		SourceID: "a.docx",
		Fields: map[domain.FieldName]domain.FieldValue{
			domain.FieldCourtName:  domain.Text("בית המשפט המחוזי בתל אביב"),
			domain.FieldCaseNumber: domain.Text("12345/23"),
			domain.FieldLawyers:    domain.List(`עו"ד כהן`, `עו"ד לוי`),
		},
		Confidence:  0.21,
		ExtractedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Strategy:    domain.StrategyRegex,
	}
}

type testServices struct {
	extraction *mockExtraction
	ingest     *mockIngest
	results    *mockResults
	validator  *mockValidator
	watcher    *mockWatcher
}

// setupTestServices installs mock services and returns them with a cleanup func.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	reg, err := patterns.ForSpecs(nil)
	if err != nil {
		t.Fatalf("patterns: %v", err)
	}

	ts := &testServices{
		extraction: &mockExtraction{result: testResult()},
		ingest:     &mockIngest{reports: map[string]*driving.IngestReport{}},
		results:    &mockResults{},
		validator:  &mockValidator{},
		watcher:    &mockWatcher{},
	}

	cfg := domain.DefaultConfig()
	services = &Services{
		Config:     cfg,
		Patterns:   reg,
		Extraction: ts.extraction,
		Ingest:     ts.ingest,
		Results:    ts.results,
		Validator:  ts.validator,
		NewWatcher: func(string) (Watcher, error) { return ts.watcher, nil },
	}
	t.Cleanup(func() { services = nil })
	return ts
}

// execute runs the root command with args and resets flag state afterwards.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), stdin, args...)
}

func executeContext(t *testing.T, ctx context.Context, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		outputMode = outputAuto
		configPath = ""
		verbose = false
		extractSourceID = ""
		resultsLimit = 20
		resultsOffset = 0
		resultsStatus = ""
		exportFormat = "jsonl"
		exportOutput = ""
		serveAddr = ""
	})

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}
