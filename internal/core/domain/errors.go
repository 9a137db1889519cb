package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown file, store or source type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotConfigured indicates a collaborator the operation needs was not wired.
	ErrNotConfigured = errors.New("not configured")

	// Extraction Errors.

	// ErrInvalidPattern indicates a configured regular expression does not compile.
	// It is fatal at startup: a broken pattern set is a broken deployment.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrUnknownField indicates a field name outside the canonical field set.
	ErrUnknownField = errors.New("unknown field")

	// ErrUnknownStrategy indicates a strategy name with no registered builder.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrStrategyFailed indicates a strategy could not produce a mapping.
	// The selector treats it as an empty mapping for that strategy only.
	ErrStrategyFailed = errors.New("strategy failed")

	// ErrSchemaViolation indicates JSON that does not match the result schema.
	ErrSchemaViolation = errors.New("schema violation")

	// External Capability Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrNERUnavailable indicates the entity-recognition service is not configured or unreachable.
	ErrNERUnavailable = errors.New("NER service unavailable")

	// ErrSourceUnavailable indicates the document source cannot be listed or read.
	ErrSourceUnavailable = errors.New("document source unavailable")
)
