package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// noneKey labels results that lack the grouped field.
const noneKey = "(none)"

// Aggregate summarises the latest extraction per verdict. Records
// without a result are skipped. Results below threshold count as low
// confidence.
func Aggregate(records []domain.ExtractionRecord, threshold float64) *domain.Summary {
	s := domain.NewSummary()
	var total float64

	for _, rec := range records {
		if rec.Result == nil {
			continue
		}
		r := rec.Result
		s.Documents++
		total += r.Confidence
		if r.Confidence < threshold {
			s.LowConfidence++
		}

		s.ByCourt[groupKey(r.Value(domain.FieldCourtName))]++
		s.ByVerdictType[groupKey(r.Value(domain.FieldVerdictType))]++

		strategy := string(rec.Strategy)
		if strategy == "" {
			strategy = string(r.Strategy)
		}
		s.ByStrategy[groupKey(strategy)]++

		for f := range r.Fields {
			s.FieldCoverage[f]++
		}
	}

	if s.Documents > 0 {
		s.AvgConfidence = total / float64(s.Documents)
	}
	return s
}

// AggregateCorpus summarises stored verdicts and their analyses, keyed by
// verdict ID. A verdict counts as parsed once it reached the parsed
// status or has an analysis; the latest comprehensive analysis of each
// verdict feeds the averages.
func AggregateCorpus(verdicts []domain.Verdict, analyses map[string][]domain.AnalysisRecord) domain.CorpusStats {
	c := domain.CorpusStats{ByFileType: map[string]int{}}
	var words, terms int

	for i := range verdicts {
		v := &verdicts[i]
		c.Verdicts++
		c.ByFileType[groupKey(v.FileType)]++

		a := latestAnalysis(analyses[v.ID])
		if a != nil {
			c.Analyzed++
			words += a.Text.WordCount
			terms += a.Legal.Total
		}
		if a != nil || v.Status == domain.StatusParsed || v.Status == domain.StatusExtracted {
			c.Parsed++
		}
	}

	if c.Analyzed > 0 {
		c.AvgWordCount = float64(words) / float64(c.Analyzed)
		c.AvgLegalTerms = float64(terms) / float64(c.Analyzed)
	}
	return c
}

// latestAnalysis decodes the newest comprehensive record. Records are
// oldest first; undecodable payloads are ignored.
func latestAnalysis(recs []domain.AnalysisRecord) *Analysis {
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].Kind != KindComprehensive {
			continue
		}
		var a Analysis
		if err := json.Unmarshal(recs[i].Data, &a); err == nil {
			return &a
		}
	}
	return nil
}

func groupKey(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return noneKey
	}
	return v
}

// RenderReport renders the aggregate summary as plain text. stats may be nil.
func RenderReport(s *domain.Summary, stats *domain.Stats, at time.Time) string {
	if s == nil || s.Documents == 0 {
		return "No analysis results available."
	}

	var b strings.Builder
	b.WriteString("=== VERDICT ANALYSIS REPORT ===\n")
	fmt.Fprintf(&b, "Generated: %s\n", at.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Documents analyzed: %d\n\n", s.Documents)

	b.WriteString("SUMMARY STATISTICS:\n")
	fmt.Fprintf(&b, "- Average confidence: %.2f\n", s.AvgConfidence)
	fmt.Fprintf(&b, "- Low confidence: %d/%d\n", s.LowConfidence, s.Documents)
	if stats != nil {
		fmt.Fprintf(&b, "- Successfully extracted: %d/%d\n", stats.ByStatus[domain.StatusExtracted], stats.Verdicts)
	}
	b.WriteString("\n")

	if c := s.Corpus; c.Verdicts > 0 {
		b.WriteString("DOCUMENT ANALYTICS:\n")
		fmt.Fprintf(&b, "- Parse success rate: %d/%d (%.0f%%)\n", c.Parsed, c.Verdicts, 100*c.ParseSuccessRate())
		fmt.Fprintf(&b, "- Analyzed documents: %d\n", c.Analyzed)
		fmt.Fprintf(&b, "- Average word count: %.1f\n", c.AvgWordCount)
		fmt.Fprintf(&b, "- Average legal terms: %.1f\n\n", c.AvgLegalTerms)
		writeCounts(&b, "FILE TYPE DISTRIBUTION:", c.ByFileType)
	}

	writeCounts(&b, "COURT DISTRIBUTION:", s.ByCourt)
	writeCounts(&b, "VERDICT TYPE DISTRIBUTION:", s.ByVerdictType)
	writeCounts(&b, "STRATEGY DISTRIBUTION:", s.ByStrategy)

	b.WriteString("FIELD COVERAGE:\n")
	for _, f := range domain.AllFields() {
		fmt.Fprintf(&b, "- %s: %d/%d\n", f.Label(), s.FieldCoverage[f], s.Documents)
	}

	return strings.TrimRight(b.String(), "\n")
}

// writeCounts writes a section with entries sorted by count, then name.
func writeCounts(b *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	b.WriteString(title + "\n")
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %d\n", k, counts[k])
	}
	b.WriteString("\n")
}
