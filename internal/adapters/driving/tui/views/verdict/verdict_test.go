package verdict

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

type stubResults struct {
	details *driving.VerdictDetails
	err     error
	gotID   string
}

func (s *stubResults) List(context.Context, domain.ListOptions) ([]domain.ExtractionRecord, error) {
	return nil, nil
}

func (s *stubResults) Get(_ context.Context, id string) (*driving.VerdictDetails, error) {
	s.gotID = id
	return s.details, s.err
}

func (s *stubResults) Stats(context.Context) (*domain.Stats, error)     { return nil, nil }
func (s *stubResults) Summary(context.Context) (*domain.Summary, error) { return nil, nil }
func (s *stubResults) Report(context.Context) (string, error)           { return "", nil }
func (s *stubResults) Export(context.Context, string, io.Writer) error  { return nil }

func testDetails() *driving.VerdictDetails {
	result := &domain.ExtractionResult{
		Fields: map[domain.FieldName]domain.FieldValue{
			domain.FieldCourtName:  domain.Text("בית המשפט המחוזי בחיפה"),
			domain.FieldCaseNumber: domain.Text("1234/22"),
			domain.FieldLawyers:    domain.List("עו\"ד כהן", "עו\"ד לוי"),
		},
		Confidence:       0.21,
		ExtractedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Strategy:         domain.StrategyRegex,
		SynonymConflicts: []domain.FieldName{domain.FieldCourtName},
	}
	return &driving.VerdictDetails{
		Verdict: domain.Verdict{ID: "v1", SourceID: "a.docx", FileType: "docx", Size: 2048, Status: domain.StatusExtracted},
		Extraction: &domain.ExtractionRecord{
			VerdictID:  "v1",
			Mode:       domain.ModePipeline,
			Strategy:   domain.StrategyRegex,
			Confidence: 0.21,
			Result:     result,
			Scores:     map[string]int{"regex": 3, "ner": 1},
		},
		Analyses: []domain.AnalysisRecord{{Kind: "comprehensive", Data: []byte(`{}`)}},
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, &stubResults{})

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.Nil(t, v.Details())
	assert.Nil(t, v.Init())
}

func TestView_Load(t *testing.T) {
	stub := &stubResults{details: testDetails()}
	v := NewView(nil, stub).WithContext(context.Background())

	cmd := v.Load("v1")
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.VerdictLoaded)
	require.True(t, ok)
	assert.Equal(t, "v1", stub.gotID)

	v.Update(msg)
	require.NotNil(t, v.Details())
	assert.Equal(t, "v1", v.Details().Verdict.ID)
}

func TestView_LoadError(t *testing.T) {
	stub := &stubResults{err: domain.ErrNotFound}
	v := NewView(nil, stub)

	v.Update(v.Load("missing")())

	assert.ErrorIs(t, v.Err(), domain.ErrNotFound)
	assert.Contains(t, v.View(), "Error")
}

func TestView_RendersFields(t *testing.T) {
	v := NewView(styles.DefaultStyles(), &stubResults{})
	v.SetDimensions(100, 80)
	v.SetDetails(testDetails())

	out := v.View()

	assert.Contains(t, out, "Verdict Details")
	assert.Contains(t, out, "a.docx")
	assert.Contains(t, out, "בית המשפט המחוזי בחיפה")
	assert.Contains(t, out, "1234/22")
	assert.Contains(t, out, "• עו\"ד לוי")
	assert.Contains(t, out, "0.21")
	assert.Contains(t, out, "Merged label variants: Court")
	assert.Contains(t, out, "Strategy scores")
	assert.Contains(t, out, "comprehensive")
}

func TestView_NoExtraction(t *testing.T) {
	v := NewView(nil, &stubResults{})
	v.SetDetails(&driving.VerdictDetails{Verdict: domain.Verdict{ID: "v2", Status: domain.StatusFailed, Error: "parse failed"}})

	out := v.View()

	assert.Contains(t, out, "No extraction stored")
	assert.Contains(t, out, "parse failed")
}

func TestView_Scroll(t *testing.T) {
	v := NewView(nil, &stubResults{})
	v.SetDimensions(80, 10)
	v.SetDetails(testDetails())

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.scrollOffset)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, v.scrollOffset)

	for i := 0; i < 100; i++ {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, v.maxScrollOffset(), v.scrollOffset)
}

func TestView_EscGoesBack(t *testing.T) {
	v := NewView(nil, &stubResults{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewVerdicts}, cmd())
}

func TestView_ErrorMessage(t *testing.T) {
	v := NewView(nil, &stubResults{})

	v.Update(messages.ErrorOccurred{Err: errors.New("store closed")})

	assert.EqualError(t, v.Err(), "store closed")
}

func TestRenderFields_AbsentFieldsMuted(t *testing.T) {
	s := styles.DefaultStyles()
	lines := RenderFields(s, domain.NewEmptyResult("x", time.Now()))

	assert.Len(t, lines, len(domain.AllFields()))
}
