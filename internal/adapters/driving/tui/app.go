package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/views/extract"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/views/report"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/views/verdict"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/views/verdicts"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	verdictsView *verdicts.View
	verdictView  *verdict.View
	extractView  *extract.View
	reportView   *report.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		verdictsView: verdicts.NewView(s, km, ports.Results),
		verdictView:  verdict.NewView(s, ports.Results),
		extractView:  extract.NewView(s, km, ports.Extraction),
		reportView:   report.NewView(s, ports.Results),
		currentView:  messages.ViewVerdicts,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.verdictsView.WithContext(ctx)
	a.verdictView.WithContext(ctx)
	a.extractView.WithContext(ctx)
	a.reportView.WithContext(ctx)
	return a
}

// WithThreshold sets the confidence below which results are flagged.
func (a *App) WithThreshold(threshold float64) *App {
	a.verdictsView.SetThreshold(threshold)
	a.verdictView.SetThreshold(threshold)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("verdict"),
		a.verdictsView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			return a.updateHelp(msg)
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewExtract:
			a.extractView.Reset()
			return a, a.extractView.Init()
		case messages.ViewReport:
			return a, a.reportView.Init()
		case messages.ViewVerdicts, messages.ViewVerdict, messages.ViewHelp:
		}
		return a, nil

	case messages.VerdictSelected:
		a.currentView = messages.ViewVerdict
		return a, a.verdictView.Load(msg.VerdictID)

	case messages.RecordsLoaded:
		a.verdictsView, cmd = a.verdictsView.Update(msg)
		return a, cmd

	case messages.VerdictLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.verdictView, cmd = a.verdictView.Update(msg)
		return a, cmd

	case messages.ExtractionCompleted:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.extractView, cmd = a.extractView.Update(msg)
		return a, cmd

	case messages.ReportLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.reportView, cmd = a.reportView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewVerdicts:
		a.verdictsView, cmd = a.verdictsView.Update(msg)
	case messages.ViewVerdict:
		a.verdictView, cmd = a.verdictView.Update(msg)
	case messages.ViewExtract:
		a.extractView, cmd = a.extractView.Update(msg)
	case messages.ViewReport:
		a.reportView, cmd = a.reportView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(key, a.keymap.Back), keymap.Matches(key, a.keymap.Help):
		a.currentView = messages.ViewVerdicts
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewVerdict:
		return a.verdictView.View()
	case messages.ViewExtract:
		return a.extractView.View()
	case messages.ViewReport:
		return a.reportView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.verdictsView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Verdicts:
  j/k, ↑/↓    Navigate
  enter       Open verdict
  /           Filter by court, case number, judge or location
  r           Reload from the store
  e           Extract from pasted text
  s           Summary report
  q           Quit

Verdict:
  j/k, ↑/↓    Scroll
  esc         Back

Extract:
  ctrl+s      Run extraction
  esc         Edit text / back

` + a.styles.Help.Render("[esc] back")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.verdictsView.SetDimensions(width, height)
	a.verdictView.SetDimensions(width, height)
	a.extractView.SetDimensions(width, height)
	a.reportView.SetDimensions(width, height)
}
