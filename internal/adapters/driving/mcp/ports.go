package mcp

import (
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Extraction runs field extraction over text.
	Extraction driving.ExtractionService

	// Results reads stored verdicts and extractions.
	Results driving.ResultService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Extraction == nil {
		return ErrMissingExtractionService
	}
	if p.Results == nil {
		return ErrMissingResultService
	}
	return nil
}
