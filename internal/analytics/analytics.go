// Package analytics computes document statistics over parsed verdict
// text and aggregates stored extraction results.
package analytics

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// KindComprehensive is the analysis record kind written at ingest.
const KindComprehensive = "comprehensive"

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	numberedLine  = regexp.MustCompile(`^\d+\.`)
)

// legalTerms maps Hebrew legal terms to their English keys, in report order.
var legalTerms = []struct {
	Hebrew, Key string
}{
	{"בית דין", "court"},
	{`פס"ד`, "verdict"},
	{"בקשה", "request"},
	{"תביעה", "lawsuit"},
	{"החלטה", "decision"},
	{"ערעור", "appeal"},
	{"צו", "order"},
	{"סעד", "remedy"},
	{"פיצוי", "compensation"},
	{"ביטול", "cancellation"},
}

// TextStats are basic word and sentence counts.
type TextStats struct {
	WordCount            int     `json:"word_count"`
	SentenceCount        int     `json:"sentence_count"`
	ParagraphCount       int     `json:"paragraph_count"`
	AvgWordsPerSentence  float64 `json:"avg_words_per_sentence"`
	AvgWordsPerParagraph float64 `json:"avg_words_per_paragraph"`
	UniqueWords          int     `json:"unique_words"`
	LexicalDiversity     float64 `json:"lexical_diversity"`
}

// LegalTermStats counts occurrences of known legal terms.
type LegalTermStats struct {
	Found  map[string]int `json:"legal_terms_found"`
	Total  int            `json:"total_legal_terms"`
	Unique int            `json:"unique_legal_terms"`
}

// DocumentStructure counts line kinds.
type DocumentStructure struct {
	TotalLines    int `json:"total_lines"`
	EmptyLines    int `json:"empty_lines"`
	NumberedLines int `json:"numbered_lines"`
	AllCapsLines  int `json:"all_caps_lines"`
	ContentLines  int `json:"content_lines"`
}

// Overview condenses an analysis into three headline numbers.
type Overview struct {
	DocumentLength  int `json:"document_length"`
	LegalComplexity int `json:"legal_complexity"`
	StructureScore  int `json:"structure_score"`
}

// Analysis is the full per-document analysis.
type Analysis struct {
	Timestamp time.Time         `json:"timestamp"`
	Text      TextStats         `json:"text_statistics"`
	Legal     LegalTermStats    `json:"legal_terms"`
	Structure DocumentStructure `json:"document_structure"`
	Summary   Overview          `json:"summary"`
}

// TextStatistics counts words, sentences and paragraphs. Empty content
// yields zero stats.
func TextStatistics(content string) TextStats {
	if content == "" {
		return TextStats{}
	}

	words := strings.Fields(content)

	sentences := 0
	for _, s := range sentenceSplit.Split(content, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}

	paragraphs := 0
	for _, p := range strings.Split(content, "\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}

	return TextStats{
		WordCount:            len(words),
		SentenceCount:        sentences,
		ParagraphCount:       paragraphs,
		AvgWordsPerSentence:  float64(len(words)) / float64(max(sentences, 1)),
		AvgWordsPerParagraph: float64(len(words)) / float64(max(paragraphs, 1)),
		UniqueWords:          len(unique),
		LexicalDiversity:     float64(len(unique)) / float64(max(len(words), 1)),
	}
}

// LegalTerms counts non-overlapping occurrences of each known term.
// Terms that do not occur are left out of Found.
func LegalTerms(content string) LegalTermStats {
	out := LegalTermStats{Found: map[string]int{}}
	if content == "" {
		return out
	}
	for _, term := range legalTerms {
		if n := strings.Count(content, term.Hebrew); n > 0 {
			out.Found[term.Key] = n
			out.Total += n
		}
	}
	out.Unique = len(out.Found)
	return out
}

// Structure counts empty, numbered and all-caps lines.
func Structure(content string) DocumentStructure {
	if content == "" {
		return DocumentStructure{}
	}

	lines := strings.Split(content, "\n")
	var s DocumentStructure
	s.TotalLines = len(lines)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			s.EmptyLines++
		case numberedLine.MatchString(trimmed):
			s.NumberedLines++
		}
		if isAllCaps(trimmed) && len([]rune(trimmed)) > 3 {
			s.AllCapsLines++
		}
	}
	s.ContentLines = s.TotalLines - s.EmptyLines
	return s
}

// isAllCaps is true when s has cased letters and none are lower case.
// Hebrew has no case, so Hebrew-only lines never count.
func isAllCaps(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// Analyze runs every analysis over content. It returns nil for empty content.
func Analyze(content string, at time.Time) *Analysis {
	if content == "" {
		return nil
	}
	a := &Analysis{
		Timestamp: at,
		Text:      TextStatistics(content),
		Legal:     LegalTerms(content),
		Structure: Structure(content),
	}
	a.Summary = Overview{
		DocumentLength:  a.Text.WordCount,
		LegalComplexity: a.Legal.Total,
		StructureScore:  a.Structure.ContentLines,
	}
	return a
}
