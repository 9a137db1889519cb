package extract

import "errors"

// ErrNoExtractionService is returned when the view has no extraction service.
var ErrNoExtractionService = errors.New("extraction service not available")
