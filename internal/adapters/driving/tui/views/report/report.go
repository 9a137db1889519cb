// Package report provides the aggregate report view for the TUI.
package report

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

// View shows the rendered summary report in a scrollable viewport.
type View struct {
	styles   *styles.Styles
	results  driving.ResultService
	ctx      context.Context
	viewport viewport.Model
	loaded   bool
	err      error
}

// NewView creates a new report view.
func NewView(s *styles.Styles, results driving.ResultService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		results:  results,
		ctx:      context.Background(),
		viewport: viewport.New(80, 18),
	}
}

// WithContext sets the context for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the report.
func (v *View) Init() tea.Cmd {
	v.loaded = false
	v.err = nil
	return func() tea.Msg {
		text, err := v.results.Report(v.ctx)
		return messages.ReportLoaded{Text: text, Err: err}
	}
}

// Update handles messages for the report view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ReportLoaded:
		v.loaded = true
		v.err = msg.Err
		v.viewport.SetContent(msg.Text)
		v.viewport.GotoTop()
		return v, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewVerdicts} }
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the report view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Report"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case !v.loaded:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	default:
		b.WriteString(v.viewport.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] scroll  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = max(height-6, 3)
}

// Loaded reports whether the report has arrived.
func (v *View) Loaded() bool {
	return v.loaded
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
