package domain

// Summary aggregates stored extraction results.
type Summary struct {
	// Documents is the number of results summarised.
	Documents int

	// AvgConfidence is the mean confidence.
	AvgConfidence float64

	// LowConfidence counts results under the configured threshold.
	LowConfidence int

	// ByCourt counts results per court name.
	ByCourt map[string]int

	// ByVerdictType counts results per verdict type.
	ByVerdictType map[string]int

	// ByStrategy counts results per winning strategy.
	ByStrategy map[string]int

	// FieldCoverage counts results where each field is present.
	FieldCoverage map[FieldName]int

	// Corpus aggregates the stored per-document analytics.
	Corpus CorpusStats
}

// CorpusStats summarises every stored verdict, extracted or not.
type CorpusStats struct {
	// Verdicts is the number of stored verdicts.
	Verdicts int

	// Parsed counts verdicts whose text was parsed successfully.
	Parsed int

	// Analyzed counts verdicts with a document analysis.
	Analyzed int

	// AvgWordCount and AvgLegalTerms are means over analyzed verdicts.
	AvgWordCount  float64
	AvgLegalTerms float64

	// ByFileType counts verdicts per file type.
	ByFileType map[string]int
}

// ParseSuccessRate returns Parsed/Verdicts, or 0 for an empty store.
func (c CorpusStats) ParseSuccessRate() float64 {
	if c.Verdicts == 0 {
		return 0
	}
	return float64(c.Parsed) / float64(c.Verdicts)
}

// NewSummary returns a zero summary with its maps allocated.
func NewSummary() *Summary {
	return &Summary{
		ByCourt:       map[string]int{},
		ByVerdictType: map[string]int{},
		ByStrategy:    map[string]int{},
		FieldCoverage: map[FieldName]int{},
		Corpus:        CorpusStats{ByFileType: map[string]int{}},
	}
}
