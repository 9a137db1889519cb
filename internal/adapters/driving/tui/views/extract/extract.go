// Package extract provides a paste-and-extract view for the TUI.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/views/verdict"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

// sourceID labels ad-hoc extractions in logs.
const sourceID = "tui"

// View runs the configured extraction mode over pasted verdict text.
// Nothing is stored.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	editor     textarea.Model
	extraction driving.ExtractionService
	ctx        context.Context

	result  *domain.ExtractionResult
	summary string
	running bool
	err     error
	width   int
	height  int
}

// NewView creates a new extract view.
func NewView(s *styles.Styles, km *keymap.KeyMap, extraction driving.ExtractionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ta := textarea.New()
	ta.Placeholder = "Paste verdict text here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0

	return &View{
		styles:     s,
		keymap:     km,
		editor:     ta,
		extraction: extraction,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for extraction calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the editor.
func (v *View) Init() tea.Cmd {
	return v.editor.Focus()
}

// Reset clears the editor and any previous result.
func (v *View) Reset() {
	v.editor.Reset()
	v.result = nil
	v.summary = ""
	v.err = nil
	v.running = false
}

// Update handles messages for the extract view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ExtractionCompleted:
		v.running = false
		v.result = msg.Result
		v.summary = msg.Summary
		v.err = msg.Err
		if v.result != nil {
			v.editor.Blur()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		if v.result != nil {
			v.result = nil
			v.summary = ""
			return v, v.editor.Focus()
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewVerdicts} }

	case keymap.Matches(key, v.keymap.Run):
		if v.running {
			return v, nil
		}
		text := v.editor.Value()
		if strings.TrimSpace(text) == "" {
			return v, nil
		}
		v.running = true
		v.err = nil
		return v, v.run(text)
	}

	if v.result != nil {
		return v, nil
	}
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

func (v *View) run(text string) tea.Cmd {
	return func() tea.Msg {
		if v.extraction == nil {
			return messages.ExtractionCompleted{Err: ErrNoExtractionService}
		}
		result, err := v.extraction.Extract(v.ctx, sourceID, text)
		return messages.ExtractionCompleted{
			Result:  result,
			Summary: v.extraction.Summary(result, err),
			Err:     err,
		}
	}
}

// View renders the extract view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Extract"))
	if v.extraction != nil {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  mode: %s", v.extraction.Mode())))
	}
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	switch {
	case v.running:
		b.WriteString(v.styles.Muted.Render("Extracting..."))
		b.WriteString("\n")
	case v.result != nil:
		b.WriteString(v.styles.Subtitle.Render(v.summary))
		b.WriteString("\n\n")
		for _, line := range verdict.RenderFields(v.styles, v.result) {
			b.WriteString(line)
			b.WriteString("\n")
		}
	default:
		b.WriteString(v.editor.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.result != nil {
		b.WriteString(v.styles.Help.Render("[esc] edit text"))
	} else {
		b.WriteString(v.styles.Help.Render("[ctrl+s] extract  [esc] back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.editor.SetWidth(max(width-2, 20))
	v.editor.SetHeight(max(height-8, 3))
}

// Result returns the last extraction result.
func (v *View) Result() *domain.ExtractionResult {
	return v.result
}

// Running reports whether an extraction is in flight.
func (v *View) Running() bool {
	return v.running
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
