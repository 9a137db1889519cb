package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

func testResult() *domain.ExtractionResult {
	return &domain.ExtractionResult{
		Fields: map[domain.FieldName]domain.FieldValue{
			domain.FieldCourtName:  domain.Text("בית המשפט העליון"),
			domain.FieldCaseNumber: domain.Text("777/20"),
		},
		Confidence:  0.14,
		ExtractedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Strategy:    domain.StrategyRegex,
	}
}

func newTestPorts() *Ports {
	res := testResult()
	return &Ports{
		Results: &MockResultService{
			Records: []domain.ExtractionRecord{{VerdictID: "v1", Confidence: 0.14, Result: res}},
			Details: &driving.VerdictDetails{
				Verdict:    domain.Verdict{ID: "v1", SourceID: "v1.docx", Status: domain.StatusExtracted},
				Extraction: &domain.ExtractionRecord{VerdictID: "v1", Confidence: 0.14, Result: res},
			},
			Text: "Total verdicts: 1",
		},
		Extraction: &MockExtractionService{Result: res},
	}
}

// newLoadedApp creates an app with dimensions set and records loaded.
func newLoadedApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	app.Update(app.verdictsView.Load()())
	return app
}

// drive runs a command and feeds its message back into the app.
func drive(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	app.Update(cmd())
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewVerdicts, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Extraction: &MockExtractionService{}})

	assert.ErrorIs(t, err, ErrMissingResultService)
	assert.Nil(t, app)
}

func TestApp_WithContextAndThreshold(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, app, app.WithThreshold(0.5))
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_ListsRecords(t *testing.T) {
	app := newLoadedApp(t)

	view := app.View()

	assert.Contains(t, view, "בית המשפט העליון")
	assert.Contains(t, view, "777/20")
}

func TestApp_OpenVerdict(t *testing.T) {
	app := newLoadedApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, loadCmd := app.Update(cmd())
	assert.Equal(t, messages.ViewVerdict, app.CurrentView())

	drive(app, loadCmd)
	view := app.View()
	assert.Contains(t, view, "Verdict Details")
	assert.Contains(t, view, "v1.docx")

	_, back := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	drive(app, back)
	assert.Equal(t, messages.ViewVerdicts, app.CurrentView())
}

func TestApp_OpenMissingVerdict(t *testing.T) {
	app := newLoadedApp(t)

	_, cmd := app.Update(messages.VerdictSelected{VerdictID: "nope"})
	drive(app, cmd)

	assert.ErrorIs(t, app.Err(), domain.ErrNotFound)
}

func TestApp_ExtractFlow(t *testing.T) {
	app := newLoadedApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	drive(app, cmd)
	require.Equal(t, messages.ViewExtract, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ע\"א 777/20")})
	_, run := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	drive(app, run)

	assert.Contains(t, app.View(), "summary")
	assert.Contains(t, app.View(), "777/20")
}

func TestApp_ReportFlow(t *testing.T) {
	app := newLoadedApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	_, load := app.Update(cmd())
	require.Equal(t, messages.ViewReport, app.CurrentView())

	drive(app, load)
	assert.Contains(t, app.View(), "Total verdicts: 1")
}

func TestApp_HelpView(t *testing.T) {
	app := newLoadedApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, app.View(), "Open verdict")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewVerdicts, app.CurrentView())
}

func TestApp_HelpQuit(t *testing.T) {
	app := newLoadedApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newLoadedApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newLoadedApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newLoadedApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("something went wrong")})

	assert.EqualError(t, app.Err(), "something went wrong")
}

func TestApp_RecordsLoadError(t *testing.T) {
	ports := newTestPorts()
	ports.Results.(*MockResultService).Err = errors.New("store closed")
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 40)

	app.Update(app.verdictsView.Load()())

	assert.Contains(t, app.View(), "store closed")
}
