// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants extract fields from verdict text and read
// stored results.
package mcp

import "errors"

// Errors returned by NewServer.
var (
	// ErrMissingExtractionService is returned when the extraction service is not provided.
	ErrMissingExtractionService = errors.New("mcp: extraction service is required")

	// ErrMissingResultService is returned when the result service is not provided.
	ErrMissingResultService = errors.New("mcp: result service is required")
)
