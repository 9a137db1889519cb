// Package verdict provides the verdict detail view for the TUI.
package verdict

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

// View shows one stored verdict with its latest extraction.
type View struct {
	styles  *styles.Styles
	results driving.ResultService
	ctx     context.Context

	details      *driving.VerdictDetails
	threshold    float64
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
}

// NewView creates a new verdict detail view.
func NewView(s *styles.Styles, results driving.ResultService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		results:   results,
		ctx:       context.Background(),
		threshold: 0.7,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetThreshold sets the low-confidence threshold.
func (v *View) SetThreshold(threshold float64) {
	v.threshold = threshold
}

// Load fetches a verdict's details.
func (v *View) Load(verdictID string) tea.Cmd {
	v.details = nil
	v.err = nil
	v.scrollOffset = 0
	return func() tea.Msg {
		details, err := v.results.Get(v.ctx, verdictID)
		return messages.VerdictLoaded{Details: details, Err: err}
	}
}

// SetDetails sets the verdict to display.
func (v *View) SetDetails(details *driving.VerdictDetails) {
	v.details = details
	v.scrollOffset = 0
	v.err = nil
}

// Details returns the displayed verdict.
func (v *View) Details() *driving.VerdictDetails {
	return v.details
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the verdict view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.VerdictLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.SetDetails(msg.Details)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewVerdicts}
		}
	}
	return v, nil
}

func (v *View) visibleLines() int {
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) maxScrollOffset() int {
	maxOffset := len(v.buildContent()) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

func (v *View) buildContent() []string {
	if v.details == nil {
		return nil
	}

	d := v.details
	lines := []string{
		v.styles.Subtitle.Render("Verdict"),
		v.row("ID", d.Verdict.ID),
		v.row("Source", d.Verdict.SourceID),
		v.row("Type", d.Verdict.FileType),
		v.row("Size", fmt.Sprintf("%d bytes", d.Verdict.Size)),
		v.row("Status", string(d.Verdict.Status)),
	}
	if d.Verdict.Error != "" {
		lines = append(lines, v.styles.Label.Render("Error")+v.styles.Error.Render(d.Verdict.Error))
	}

	lines = append(lines, "")
	rec := d.Extraction
	if rec == nil || rec.Result == nil {
		lines = append(lines, v.styles.Muted.Render("No extraction stored"))
		return lines
	}

	conf := v.styles.Confidence(rec.Confidence, v.threshold).Render(fmt.Sprintf("%.2f", rec.Confidence))
	lines = append(lines,
		v.styles.Subtitle.Render("Extraction"),
		v.row("Mode", string(rec.Mode)),
		v.row("Strategy", string(rec.Strategy)),
		v.styles.Label.Render("Confidence")+conf,
		v.row("Extracted", rec.Result.ExtractedAt.Format("2006-01-02 15:04:05")),
		"",
		v.styles.Subtitle.Render("Fields"),
	)
	lines = append(lines, RenderFields(v.styles, rec.Result)...)

	if len(rec.Scores) > 0 {
		names := make([]string, 0, len(rec.Scores))
		for name := range rec.Scores {
			names = append(names, name)
		}
		sort.Strings(names)
		lines = append(lines, "", v.styles.Subtitle.Render("Strategy scores"))
		for _, name := range names {
			lines = append(lines, v.row(name, fmt.Sprintf("%d", rec.Scores[name])))
		}
	}

	if len(d.Analyses) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("Analyses"))
		for _, a := range d.Analyses {
			lines = append(lines, v.row(a.Kind, fmt.Sprintf("%d bytes", len(a.Data))))
		}
	}
	return lines
}

func (v *View) row(label, value string) string {
	if value == "" {
		return v.styles.Label.Render(label) + v.styles.Muted.Render("-")
	}
	return v.styles.Label.Render(label) + v.styles.Value.Render(value)
}

// RenderFields renders every canonical field of a result, one entry per
// line, with list items on their own lines and absent fields muted.
func RenderFields(s *styles.Styles, result *domain.ExtractionResult) []string {
	lines := make([]string, 0, len(domain.AllFields())+4)
	for _, f := range domain.AllFields() {
		val, ok := result.Get(f)
		label := s.Label.Render(f.Label())
		switch {
		case !ok || val.IsEmpty():
			lines = append(lines, label+s.Muted.Render("-"))
		case val.IsList():
			items := val.Items()
			lines = append(lines, label+s.Value.Render("• "+items[0]))
			indent := strings.Repeat(" ", s.Label.GetWidth())
			for _, item := range items[1:] {
				lines = append(lines, indent+s.Value.Render("• "+item))
			}
		default:
			lines = append(lines, label+s.Value.Render(val.String()))
		}
	}
	if result.HasConflicts() {
		conflicts := make([]string, 0, len(result.SynonymConflicts))
		for _, f := range result.SynonymConflicts {
			conflicts = append(conflicts, f.Label())
		}
		lines = append(lines, s.Warning.Render("Merged label variants: "+strings.Join(conflicts, ", ")))
	}
	return lines
}

// View renders the verdict view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Verdict Details"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(strings.Repeat("─", max(v.width-2, 10))))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.details == nil:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	default:
		lines := v.buildContent()
		end := v.scrollOffset + v.visibleLines()
		if end > len(lines) {
			end = len(lines)
		}
		for _, line := range lines[v.scrollOffset:end] {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] scroll  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
