package domain

import "time"

// VerdictStatus tracks a stored verdict through ingest.
type VerdictStatus string

// Ingest statuses.
const (
	StatusDownloaded VerdictStatus = "downloaded"
	StatusParsed     VerdictStatus = "parsed"
	StatusExtracted  VerdictStatus = "extracted"
	StatusFailed     VerdictStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s VerdictStatus) IsValid() bool {
	switch s {
	case StatusDownloaded, StatusParsed, StatusExtracted, StatusFailed:
		return true
	default:
		return false
	}
}

// Verdict is a source document known to the store.
type Verdict struct {
	// ID is the unique identifier.
	ID string

	// SourceID is the opaque document identifier (path or object key).
	SourceID string

	// URI is the original location.
	URI string

	// FileType is the lower-case extension, e.g. "docx".
	FileType string

	// Size is the file size in bytes.
	Size int64

	// ContentHash is the hex SHA-256 of the file bytes.
	ContentHash string

	// Status is the ingest status.
	Status VerdictStatus

	// Error holds the last failure message when Status is failed.
	Error string

	// CreatedAt is when the verdict was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the verdict was last updated.
	UpdatedAt time.Time
}

// ExtractionRecord is a persisted extraction result.
// The result is stored as an opaque blob next to its confidence.
type ExtractionRecord struct {
	ID         string
	VerdictID  string
	Mode       ExtractionMode
	Strategy   StrategyName
	Confidence float64

	// Result is the full result; persisted as JSON.
	Result *ExtractionResult

	// Scores holds per-strategy diagnostics from a selection, if any.
	Scores map[string]int

	CreatedAt time.Time
}

// AnalysisRecord is a persisted analytics payload for one verdict.
type AnalysisRecord struct {
	ID        string
	VerdictID string

	// Kind names the analysis, e.g. "text_statistics".
	Kind string

	// Data is the JSON payload.
	Data []byte

	CreatedAt time.Time
}

// ContentFullText is the content kind holding the whole parsed document.
const ContentFullText = "full_text"

// ParsedContent is the normalised text of a verdict, kept so it can be
// re-extracted without fetching and parsing the source again.
// There is at most one per verdict and kind.
type ParsedContent struct {
	VerdictID string
	Kind      string
	Text      string
	CreatedAt time.Time
}

// ListOptions bounds list queries.
type ListOptions struct {
	// Limit caps the number of rows; 0 means no limit.
	Limit int

	// Offset skips rows.
	Offset int

	// Status filters verdicts by status when set.
	Status VerdictStatus
}

// Stats summarises the store.
type Stats struct {
	// Verdicts is the number of stored verdicts.
	Verdicts int

	// ByStatus counts verdicts per status.
	ByStatus map[VerdictStatus]int

	// Extractions is the number of stored extraction records.
	Extractions int

	// AvgConfidence is the mean confidence over the latest extraction per verdict.
	AvgConfidence float64
}
