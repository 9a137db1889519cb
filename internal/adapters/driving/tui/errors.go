package tui

import "errors"

// ErrMissingResultService is returned when the result service is not provided.
var ErrMissingResultService = errors.New("tui: result service is required")

// ErrMissingExtractionService is returned when the extraction service is not provided.
var ErrMissingExtractionService = errors.New("tui: extraction service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
