package verdicts

import "errors"

// ErrNoResultService is returned when the view has no result service.
var ErrNoResultService = errors.New("result service not available")
