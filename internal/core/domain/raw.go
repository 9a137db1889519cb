package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// RawDocument represents opaque bytes fetched from a document source.
// It is the source's output before text is extracted from it.
type RawDocument struct {
	// SourceID is the opaque document identifier (file path, object key).
	SourceID string

	// URI is the original location.
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains source-specific key-value pairs.
	Metadata map[string]any
}

// Hash returns the hex SHA-256 of the content.
func (r *RawDocument) Hash() string {
	sum := sha256.Sum256(r.Content)
	return hex.EncodeToString(sum[:])
}

// FileType returns the lower-case extension of the source id without the dot.
func (r *RawDocument) FileType() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(r.SourceID)), ".")
}

// MIMETypeForExt maps a file extension to the MIME type normalisers register for.
func MIMETypeForExt(ext string) string {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "pdf":
		return "application/pdf"
	case "txt", "text":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// SupportedExt reports whether files with this extension can be ingested.
func SupportedExt(ext string) bool {
	return MIMETypeForExt(ext) != "application/octet-stream"
}
