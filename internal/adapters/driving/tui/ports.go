// Package tui provides an interactive terminal user interface for browsing
// extracted verdicts. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Results reads stored verdicts and extractions.
	Results driving.ResultService

	// Extraction runs ad-hoc extraction over pasted text.
	Extraction driving.ExtractionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(results driving.ResultService, extraction driving.ExtractionService) *Ports {
	return &Ports{
		Results:    results,
		Extraction: extraction,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Results == nil {
		return ErrMissingResultService
	}
	if p.Extraction == nil {
		return ErrMissingExtractionService
	}
	return nil
}
