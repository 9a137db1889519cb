package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Metadata keys in the serialised result. They never count as fields.
const (
	KeyConfidence       = "confidence_score"
	KeyTimestamp        = "extraction_timestamp"
	KeySourceID         = "file_path"
	KeyStrategy         = "strategy"
	KeySynonymConflicts = "synonym_conflicts"
)

// ExtractionResult is the cleaned, scored output for one document.
// It is created once per document and not mutated after scoring.
type ExtractionResult struct {
	// SourceID is the opaque document identifier, echoed for logging.
	SourceID string

	// Fields holds only present values; absent fields have no entry.
	Fields map[FieldName]FieldValue

	// Confidence is in [0,1].
	Confidence float64

	// ExtractedAt is when extraction finished.
	ExtractedAt time.Time

	// Strategy names the strategy whose mapping was kept.
	// Empty when no strategy produced anything.
	Strategy StrategyName

	// SynonymConflicts lists scalar fields where two label variants
	// both produced text and the texts were concatenated.
	SynonymConflicts []FieldName
}

// NewEmptyResult returns the all-absent result with zero confidence.
func NewEmptyResult(sourceID string, at time.Time) *ExtractionResult {
	return &ExtractionResult{
		SourceID:    sourceID,
		Fields:      map[FieldName]FieldValue{},
		ExtractedAt: at,
	}
}

// Get returns the value for a field.
func (r *ExtractionResult) Get(f FieldName) (FieldValue, bool) {
	v, ok := r.Fields[f]
	return v, ok
}

// Value returns the field as display text, or "" when absent.
func (r *ExtractionResult) Value(f FieldName) string {
	return r.Fields[f].String()
}

// Filled returns the number of present fields.
func (r *ExtractionResult) Filled() int {
	return len(r.Fields)
}

// HasConflicts reports whether any scalar synonym concatenation happened.
func (r *ExtractionResult) HasConflicts() bool {
	return len(r.SynonymConflicts) > 0
}

// MarshalJSON renders the flat mapping consumers persist: every canonical
// field key (null when absent) plus the metadata keys.
func (r ExtractionResult) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(AllFields())+5)
	for _, f := range AllFields() {
		if v, ok := r.Fields[f]; ok {
			m[string(f)] = v
		} else {
			m[string(f)] = nil
		}
	}
	m[KeyConfidence] = r.Confidence
	m[KeyTimestamp] = r.ExtractedAt.Format(time.RFC3339Nano)
	if r.SourceID != "" {
		m[KeySourceID] = r.SourceID
	} else {
		m[KeySourceID] = nil
	}
	if r.Strategy != "" {
		m[KeyStrategy] = string(r.Strategy)
	}
	if len(r.SynonymConflicts) > 0 {
		m[KeySynonymConflicts] = r.SynonymConflicts
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the flat mapping written by MarshalJSON.
func (r *ExtractionResult) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := ExtractionResult{Fields: map[FieldName]FieldValue{}}
	for _, f := range AllFields() {
		raw, ok := m[string(f)]
		if !ok || string(raw) == "null" {
			continue
		}
		var v FieldValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("field %s: %w", f, err)
		}
		out.Fields[f] = v
	}
	if raw, ok := m[KeyConfidence]; ok {
		if err := json.Unmarshal(raw, &out.Confidence); err != nil {
			return fmt.Errorf("%s: %w", KeyConfidence, err)
		}
	}
	if raw, ok := m[KeyTimestamp]; ok {
		var ts string
		if err := json.Unmarshal(raw, &ts); err == nil && ts != "" {
			t, err := time.Parse(time.RFC3339Nano, ts)
			if err != nil {
				return fmt.Errorf("%s: %w", KeyTimestamp, err)
			}
			out.ExtractedAt = t
		}
	}
	if raw, ok := m[KeySourceID]; ok {
		_ = json.Unmarshal(raw, &out.SourceID)
	}
	if raw, ok := m[KeyStrategy]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out.Strategy = StrategyName(s)
		}
	}
	if raw, ok := m[KeySynonymConflicts]; ok {
		if err := json.Unmarshal(raw, &out.SynonymConflicts); err != nil {
			return fmt.Errorf("%s: %w", KeySynonymConflicts, err)
		}
	}
	*r = out
	return nil
}
