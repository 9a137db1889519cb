package results

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// DefaultMaxLength is the longest value kept, counted in characters.
const DefaultMaxLength = 500

// MultiValued reports whether a field holds a list. The pattern
// registry satisfies it.
type MultiValued interface {
	Multi(name domain.FieldName) bool
}

// Outcome is the product of one normalisation pass.
type Outcome struct {
	// Fields holds cleaned canonical entries in canonical field order.
	Fields domain.RawFields

	// Conflicts lists scalar fields whose synonym hits were concatenated.
	Conflicts []domain.FieldName

	// Present is the number of distinct canonical fields that had any raw
	// value, blank or not, before cleaning.
	Present int
}

// Normalizer folds synonyms, cleans and bounds values.
type Normalizer struct {
	multi    MultiValued
	synonyms *Synonyms
	maxLen   int
}

// NewNormalizer creates a normalizer. A nil multi uses the canonical
// defaults; a nil synonyms uses the built-in table; a non-positive maxLen
// uses DefaultMaxLength.
func NewNormalizer(multi MultiValued, synonyms *Synonyms, maxLen int) *Normalizer {
	if synonyms == nil {
		synonyms = &Synonyms{table: DefaultSynonyms()}
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	return &Normalizer{multi: multi, synonyms: synonyms, maxLen: maxLen}
}

// MaxLength returns the truncation bound.
func (n *Normalizer) MaxLength() int {
	return n.maxLen
}

func (n *Normalizer) isMulti(f domain.FieldName) bool {
	if n.multi == nil {
		return f.IsMultiValued()
	}
	return n.multi.Multi(f)
}

// MergeSynonyms folds raw labels into canonical fields. List targets
// collect every value; scalar targets concatenate texts, and a scalar
// that received text from two labels is reported as a conflict.
// Labels with no canonical field are dropped.
func (n *Normalizer) MergeSynonyms(raw domain.RawFields) (domain.RawFields, []domain.FieldName) {
	merged := make(map[domain.FieldName]domain.FieldValue, len(raw))
	var order []domain.FieldName
	var conflicts []domain.FieldName

	for _, entry := range raw {
		field, ok := n.synonyms.Canonical(entry.Name)
		if !ok {
			continue
		}

		prev, seen := merged[field]
		if !seen {
			order = append(order, field)
		}

		if n.isMulti(field) {
			items := append(prev.Items(), entry.Value.Items()...)
			merged[field] = domain.List(items...)
			continue
		}

		text := entry.Value.String()
		if seen && strings.TrimSpace(prev.String()) != "" && strings.TrimSpace(text) != "" {
			conflicts = appendOnce(conflicts, field)
		}
		merged[field] = domain.Text(prev.String() + text)
	}

	out := make(domain.RawFields, 0, len(order))
	for _, f := range order {
		out = append(out, domain.RawField{Name: string(f), Value: merged[f]})
	}
	return out, conflicts
}

// Normalize merges synonyms and cleans every value. Blank values become
// absent, long values are truncated, and list values are split on
// newline, comma and hyphen, trimmed and deduplicated in order.
// Normalizing an already normalized mapping returns it unchanged.
func (n *Normalizer) Normalize(raw domain.RawFields) Outcome {
	merged, conflicts := n.MergeSynonyms(raw)

	cleaned := make(map[domain.FieldName]domain.FieldValue, len(merged))
	for _, entry := range merged {
		f := domain.FieldName(entry.Name)
		if n.isMulti(f) {
			if items := n.cleanItems(entry.Value.Items()); len(items) > 0 {
				cleaned[f] = domain.List(items...)
			}
			continue
		}
		if text := n.cleanText(entry.Value.String()); text != "" {
			cleaned[f] = domain.Text(text)
		}
	}

	out := make(domain.RawFields, 0, len(cleaned))
	for _, f := range domain.AllFields() {
		if v, ok := cleaned[f]; ok {
			out = append(out, domain.RawField{Name: string(f), Value: v})
		}
	}

	return Outcome{Fields: out, Conflicts: conflicts, Present: len(merged)}
}

// Result normalises raw and scores it into a finalized result.
func (n *Normalizer) Result(sourceID string, raw domain.RawFields, strategy domain.StrategyName, at time.Time) *domain.ExtractionResult {
	o := n.Normalize(raw)
	return newResult(sourceID, o, strategy, at, Confidence(o.Present, len(o.Fields)))
}

// ResultWithConfidence normalises raw but takes the confidence from the
// caller, clamped to [0,1]. The ner mode reports the model's own score.
func (n *Normalizer) ResultWithConfidence(
	sourceID string,
	raw domain.RawFields,
	strategy domain.StrategyName,
	at time.Time,
	confidence float64,
) *domain.ExtractionResult {
	return newResult(sourceID, n.Normalize(raw), strategy, at, clamp(confidence))
}

func newResult(sourceID string, o Outcome, strategy domain.StrategyName, at time.Time, confidence float64) *domain.ExtractionResult {
	r := domain.NewEmptyResult(sourceID, at)
	for _, entry := range o.Fields {
		r.Fields[domain.FieldName(entry.Name)] = entry.Value
	}
	r.Confidence = confidence
	r.SynonymConflicts = o.Conflicts
	if len(o.Fields) > 0 {
		r.Strategy = strategy
	}
	return r
}

func (n *Normalizer) cleanText(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	return truncate(s, n.maxLen)
}

func (n *Normalizer) cleanItems(values []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, piece := range strings.FieldsFunc(v, isSeparator) {
			piece = n.cleanText(piece)
			if piece == "" {
				continue
			}
			if _, dup := seen[piece]; dup {
				continue
			}
			seen[piece] = struct{}{}
			out = append(out, piece)
		}
	}
	return out
}

func isSeparator(r rune) bool {
	return r == '\n' || r == ',' || r == '-'
}

// truncate cuts s to max runes and re-trims the cut edge.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max]))
}

func appendOnce(list []domain.FieldName, f domain.FieldName) []domain.FieldName {
	for _, existing := range list {
		if existing == f {
			return list
		}
	}
	return append(list, f)
}
