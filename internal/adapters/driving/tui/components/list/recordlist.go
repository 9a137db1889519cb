// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// DefaultThreshold marks rows below it as low confidence.
const DefaultThreshold = 0.7

// RecordList displays stored extraction records in a navigable, filterable list.
type RecordList struct {
	records   []domain.ExtractionRecord
	visible   []int
	filter    string
	selected  int
	threshold float64
	styles    *styles.Styles
	width     int
	height    int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		threshold: DefaultThreshold,
		styles:    s,
		width:     80,
		height:    10,
	}
}

// Init initialises the record list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.visible) > 0 {
				r.selected = len(r.visible) - 1
			}
		}
	}
	return r, nil
}

// View renders the record list.
func (r *RecordList) View() string {
	if len(r.visible) == 0 {
		if len(r.records) > 0 {
			return r.styles.Muted.Render("No verdicts match the filter")
		}
		return r.styles.Muted.Render("No extracted verdicts yet")
	}

	lines := make([]string, 0, len(r.visible)+2)
	header := fmt.Sprintf("Verdicts (%d)", len(r.visible))
	if r.filter != "" {
		header = fmt.Sprintf("Verdicts (%d of %d)", len(r.visible), len(r.records))
	}
	lines = append(lines, r.styles.Subtitle.Render(header), "")

	// Each record takes two lines.
	visibleCount := (r.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.visible) {
		end = len(r.visible)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecord(i, &r.records[r.visible[i]]))
	}

	return strings.Join(lines, "\n")
}

func (r *RecordList) renderRecord(index int, rec *domain.ExtractionRecord) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := Title(rec)
	maxTitleLen := r.width - 12
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title = Truncate(title, maxTitleLen)
	pad := maxTitleLen - len([]rune(title))
	if pad < 0 {
		pad = 0
	}

	score := fmt.Sprintf("%.2f", rec.Confidence)
	scoreStyle := r.styles.Confidence(rec.Confidence, r.threshold)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(indicator + title + strings.Repeat(" ", pad) + "  " + score)
	} else {
		titleLine = r.styles.Normal.Render(indicator+title+strings.Repeat(" ", pad)+"  ") +
			scoreStyle.Render(score)
	}

	detail := Truncate(Subtitle(rec), r.width-6)
	return titleLine + "\n" + r.styles.Muted.Render("    "+detail)
}

// Title is the court name, falling back to the verdict ID.
func Title(rec *domain.ExtractionRecord) string {
	if rec.Result != nil {
		if court := rec.Result.Value(domain.FieldCourtName); court != "" {
			return court
		}
	}
	return rec.VerdictID
}

// Subtitle joins case number, date, strategy and filled-field count.
func Subtitle(rec *domain.ExtractionRecord) string {
	parts := make([]string, 0, 4)
	if rec.Result != nil {
		if v := rec.Result.Value(domain.FieldCaseNumber); v != "" {
			parts = append(parts, v)
		}
		if v := rec.Result.Value(domain.FieldVerdictDate); v != "" {
			parts = append(parts, v)
		}
	}
	if rec.Strategy != "" {
		parts = append(parts, string(rec.Strategy))
	}
	filled := 0
	if rec.Result != nil {
		filled = rec.Result.Filled()
	}
	parts = append(parts, fmt.Sprintf("%d/%d fields", filled, len(domain.AllFields())))
	return strings.Join(parts, " · ")
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:max(n, 0)])
	}
	return string(runes[:n-3]) + "..."
}

// SetRecords replaces the records and reapplies the filter.
func (r *RecordList) SetRecords(records []domain.ExtractionRecord) {
	r.records = records
	r.selected = 0
	r.apply()
}

// Records returns all records regardless of the filter.
func (r *RecordList) Records() []domain.ExtractionRecord {
	return r.records
}

// SetFilter narrows the list to records whose verdict ID or
// court, case number or judge contains the text.
func (r *RecordList) SetFilter(filter string) {
	r.filter = strings.TrimSpace(filter)
	r.selected = 0
	r.apply()
}

// Filter returns the active filter.
func (r *RecordList) Filter() string {
	return r.filter
}

// SetThreshold sets the low-confidence threshold.
func (r *RecordList) SetThreshold(threshold float64) {
	r.threshold = threshold
}

func (r *RecordList) apply() {
	r.visible = r.visible[:0]
	needle := strings.ToLower(r.filter)
	for i := range r.records {
		if needle == "" || matches(&r.records[i], needle) {
			r.visible = append(r.visible, i)
		}
	}
}

func matches(rec *domain.ExtractionRecord, needle string) bool {
	if strings.Contains(strings.ToLower(rec.VerdictID), needle) {
		return true
	}
	if rec.Result == nil {
		return false
	}
	for _, f := range []domain.FieldName{
		domain.FieldCourtName, domain.FieldCaseNumber, domain.FieldJudgeName, domain.FieldLocation,
	} {
		if strings.Contains(strings.ToLower(rec.Result.Value(f)), needle) {
			return true
		}
	}
	return false
}

// Selected returns the index of the selected row among visible rows.
func (r *RecordList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RecordList) SetSelected(index int) {
	if index >= 0 && index < len(r.visible) {
		r.selected = index
	}
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.ExtractionRecord {
	if r.selected < 0 || r.selected >= len(r.visible) {
		return nil
	}
	return &r.records[r.visible[r.selected]]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.visible)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of visible records.
func (r *RecordList) Count() int {
	return len(r.visible)
}

// IsEmpty returns whether no record is visible.
func (r *RecordList) IsEmpty() bool {
	return len(r.visible) == 0
}
