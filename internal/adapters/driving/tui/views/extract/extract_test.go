package extract

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
)

type stubExtraction struct {
	result  *domain.ExtractionResult
	err     error
	gotText string
	gotID   string
}

func (s *stubExtraction) Extract(_ context.Context, id, text string) (*domain.ExtractionResult, error) {
	s.gotID = id
	s.gotText = text
	return s.result, s.err
}

func (s *stubExtraction) Select(context.Context, string, string) (*domain.Selection, error) {
	return &domain.Selection{}, nil
}

func (s *stubExtraction) Mode() domain.ExtractionMode { return domain.ModePipeline }

func (s *stubExtraction) Summary(r *domain.ExtractionResult, err error) string {
	if err != nil {
		return "failed: " + err.Error()
	}
	return "extracted"
}

func newResult() *domain.ExtractionResult {
	return &domain.ExtractionResult{
		Fields: map[domain.FieldName]domain.FieldValue{
			domain.FieldCaseNumber: domain.Text("1234/22"),
		},
		Confidence:  0.07,
		ExtractedAt: time.Now(),
	}
}

func typeText(v *View, s string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &stubExtraction{})

	require.NotNil(t, v)
	assert.Nil(t, v.Result())
	assert.Contains(t, v.View(), "mode: pipeline")
}

func TestView_RunExtraction(t *testing.T) {
	stub := &stubExtraction{result: newResult()}
	v := NewView(nil, nil, stub)
	v.SetDimensions(100, 40)
	v.Init()

	typeText(v, "תיק 1234/22")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, v.Running())
	assert.Contains(t, v.View(), "Extracting...")

	v.Update(cmd())

	assert.False(t, v.Running())
	assert.Equal(t, "תיק 1234/22", stub.gotText)
	assert.Equal(t, "tui", stub.gotID)
	require.NotNil(t, v.Result())
	out := v.View()
	assert.Contains(t, out, "extracted")
	assert.Contains(t, out, "1234/22")
}

func TestView_RunBlankTextDoesNothing(t *testing.T) {
	v := NewView(nil, nil, &stubExtraction{})
	v.Init()
	typeText(v, "   ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, cmd)
	assert.False(t, v.Running())
}

func TestView_RunError(t *testing.T) {
	stub := &stubExtraction{err: errors.New("timeout")}
	v := NewView(nil, nil, stub)
	v.Init()
	typeText(v, "text")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	v.Update(cmd())

	assert.EqualError(t, v.Err(), "timeout")
	assert.Contains(t, v.View(), "Error: timeout")
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil, nil)
	v.Init()
	typeText(v, "text")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	v.Update(cmd())

	assert.ErrorIs(t, v.Err(), ErrNoExtractionService)
}

func TestView_EscClearsResultThenLeaves(t *testing.T) {
	v := NewView(nil, nil, &stubExtraction{})
	v.Update(messages.ExtractionCompleted{Result: newResult(), Summary: "ok"})
	require.NotNil(t, v.Result())

	v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, v.Result())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewVerdicts}, cmd())
}

func TestView_Reset(t *testing.T) {
	v := NewView(nil, nil, &stubExtraction{})
	v.Init()
	typeText(v, "text")
	v.Update(messages.ExtractionCompleted{Result: newResult()})

	v.Reset()

	assert.Nil(t, v.Result())
	assert.Equal(t, "", v.editor.Value())
}
