package results

import (
	"math"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// Confidence returns filled/present clamped to [0,1], or 0 when nothing
// was present. It measures how much of the raw mapping survived cleaning,
// not how complete the document is.
func Confidence(present, filled int) float64 {
	if present <= 0 || filled <= 0 {
		return 0
	}
	return clamp(float64(filled) / float64(present))
}

func clamp(c float64) float64 {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// CountFilled counts entries with non-blank values under a label the
// synonym table recognises; other entries are dropped by normalisation
// and do not score. A nil table uses the built-in one. The Selector uses
// it as the per-strategy score.
func CountFilled(fields domain.RawFields, synonyms *Synonyms) int {
	if synonyms == nil {
		synonyms = &Synonyms{table: DefaultSynonyms()}
	}
	n := 0
	for _, f := range fields {
		if f.Value.IsEmpty() {
			continue
		}
		if _, ok := synonyms.Canonical(f.Name); ok {
			n++
		}
	}
	return n
}
