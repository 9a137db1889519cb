// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewVerdicts lists stored extractions.
	ViewVerdicts ViewType = iota
	// ViewVerdict shows one verdict with its fields.
	ViewVerdict
	// ViewExtract runs extraction over pasted text.
	ViewExtract
	// ViewReport shows the aggregate report.
	ViewReport
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewVerdicts:
		return "verdicts"
	case ViewVerdict:
		return "verdict"
	case ViewExtract:
		return "extract"
	case ViewReport:
		return "report"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// RecordsLoaded carries stored extraction records.
type RecordsLoaded struct {
	Records []domain.ExtractionRecord
	Err     error
}

// VerdictSelected asks for one verdict's details.
type VerdictSelected struct {
	VerdictID string
}

// VerdictLoaded carries a verdict with its latest extraction.
type VerdictLoaded struct {
	Details *driving.VerdictDetails
	Err     error
}

// ExtractionCompleted carries the result of an ad-hoc extraction.
type ExtractionCompleted struct {
	Result  *domain.ExtractionResult
	Summary string
	Err     error
}

// ReportLoaded carries the rendered aggregate report.
type ReportLoaded struct {
	Text string
	Err  error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
