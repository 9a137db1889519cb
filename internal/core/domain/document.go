package domain

// Document is the plain-text form of a verdict after parsing.
// It is what extraction strategies consume.
type Document struct {
	// SourceID is the opaque document identifier.
	SourceID string

	// URI is the original location (file path, URL, etc).
	URI string

	// Title is the human-readable title, usually the file name.
	Title string

	// Content is the full plain text.
	Content string

	// Metadata contains parser-specific key-value pairs.
	Metadata map[string]any
}
