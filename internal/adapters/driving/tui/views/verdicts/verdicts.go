// Package verdicts provides the main verdict list view for the TUI.
package verdicts

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

// View lists stored extractions with a filter input and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.FilterInput
	list      *list.RecordList
	statusbar *status.Bar

	results driving.ResultService
	ctx     context.Context

	width     int
	height    int
	ready     bool
	err       error
	filtering bool
}

// NewView creates a new verdict list view.
func NewView(s *styles.Styles, km *keymap.KeyMap, results driving.ResultService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewFilterInput(s),
		list:      list.NewRecordList(s),
		statusbar: status.NewBar(s, km),
		results:   results,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetThreshold sets the low-confidence threshold used for colouring.
func (v *View) SetThreshold(threshold float64) {
	v.list.SetThreshold(threshold)
}

// Init loads the stored records.
func (v *View) Init() tea.Cmd {
	return v.Load()
}

// Load fetches the latest extraction per verdict.
func (v *View) Load() tea.Cmd {
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage("")
	return func() tea.Msg {
		if v.results == nil {
			return messages.ErrorOccurred{Err: ErrNoResultService}
		}
		records, err := v.results.List(v.ctx, domain.ListOptions{})
		return messages.RecordsLoaded{Records: records, Err: err}
	}
}

// Update handles messages for the list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RecordsLoaded:
		v.handleRecordsLoaded(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.filtering {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.filtering {
		return v.handleFilterKey(msg)
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	case keymap.Matches(key, v.keymap.Filter):
		v.filtering = true
		return v, v.input.Focus()
	case keymap.Matches(key, v.keymap.Reload):
		return v, v.Load()
	case keymap.Matches(key, v.keymap.Extract):
		return v, changeView(messages.ViewExtract)
	case keymap.Matches(key, v.keymap.Report):
		return v, changeView(messages.ViewReport)
	case keymap.Matches(key, v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	case keymap.Matches(key, v.keymap.Open):
		rec := v.list.SelectedRecord()
		if rec == nil {
			return v, nil
		}
		id := rec.VerdictID
		return v, func() tea.Msg { return messages.VerdictSelected{VerdictID: id} }
	case keymap.Matches(key, v.keymap.Back):
		if v.list.Filter() != "" {
			v.input.Reset()
			v.list.SetFilter("")
			v.statusbar.SetCount(v.list.Count())
		}
		return v, nil
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		v.filtering = false
		v.input.Blur()
		return v, nil
	case tea.KeyEsc:
		v.filtering = false
		v.input.Blur()
		v.input.Reset()
		v.list.SetFilter("")
		v.statusbar.SetCount(v.list.Count())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.list.SetFilter(v.input.Value())
	v.statusbar.SetCount(v.list.Count())
	return v, cmd
}

func (v *View) handleRecordsLoaded(msg messages.RecordsLoaded) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.list.SetRecords(msg.Records)
	v.list.SetFilter(v.input.Value())
	v.statusbar.SetState(status.StateList)
	v.statusbar.SetMessage("")
	v.statusbar.SetCount(v.list.Count())
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

// View renders the list view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Verdicts"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// Records returns all loaded records.
func (v *View) Records() []domain.ExtractionRecord {
	return v.list.Records()
}

// SelectedRecord returns the highlighted record.
func (v *View) SelectedRecord() *domain.ExtractionRecord {
	return v.list.SelectedRecord()
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filtering
}

// Filter returns the active filter text.
func (v *View) Filter() string {
	return v.list.Filter()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
