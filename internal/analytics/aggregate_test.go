package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

func record(strategy domain.StrategyName, confidence float64, fields map[domain.FieldName]domain.FieldValue) domain.ExtractionRecord {
	return domain.ExtractionRecord{
		Strategy:   strategy,
		Confidence: confidence,
		Result: &domain.ExtractionResult{
			Fields:     fields,
			Confidence: confidence,
			Strategy:   strategy,
		},
	}
}

func sampleRecords() []domain.ExtractionRecord {
	return []domain.ExtractionRecord{
		record(domain.StrategyRegex, 1.0, map[domain.FieldName]domain.FieldValue{
			domain.FieldCourtName:   domain.Text("בית המשפט העליון"),
			domain.FieldVerdictType: domain.Text("פסק דין"),
		}),
		record(domain.StrategyRegex, 0.5, map[domain.FieldName]domain.FieldValue{
			domain.FieldCourtName: domain.Text("בית המשפט העליון"),
		}),
		record("", 0.3, map[domain.FieldName]domain.FieldValue{}),
		{VerdictID: "no-result"},
	}
}

func TestAggregate(t *testing.T) {
	s := Aggregate(sampleRecords(), 0.7)

	assert.Equal(t, 3, s.Documents)
	assert.InDelta(t, 0.6, s.AvgConfidence, 1e-9)
	assert.Equal(t, 2, s.LowConfidence)
	assert.Equal(t, 2, s.ByCourt["בית המשפט העליון"])
	assert.Equal(t, 1, s.ByCourt[noneKey])
	assert.Equal(t, 1, s.ByVerdictType["פסק דין"])
	assert.Equal(t, 2, s.ByVerdictType[noneKey])
	assert.Equal(t, 2, s.ByStrategy["regex"])
	assert.Equal(t, 1, s.ByStrategy[noneKey])
	assert.Equal(t, 2, s.FieldCoverage[domain.FieldCourtName])
	assert.Zero(t, s.FieldCoverage[domain.FieldJudgeName])
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, 0.7)
	require.NotNil(t, s)
	assert.Zero(t, s.Documents)
	assert.Zero(t, s.AvgConfidence)
}

func TestRenderReport(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	stats := &domain.Stats{
		Verdicts: 4,
		ByStatus: map[domain.VerdictStatus]int{domain.StatusExtracted: 3, domain.StatusFailed: 1},
	}

	out := RenderReport(Aggregate(sampleRecords(), 0.7), stats, at)

	assert.Contains(t, out, "=== VERDICT ANALYSIS REPORT ===")
	assert.Contains(t, out, "Generated: 2024-03-01 12:30:00")
	assert.Contains(t, out, "Documents analyzed: 3")
	assert.Contains(t, out, "- Average confidence: 0.60")
	assert.Contains(t, out, "- Low confidence: 2/3")
	assert.Contains(t, out, "- Successfully extracted: 3/4")
	assert.Contains(t, out, "- בית המשפט העליון: 2")
	assert.Contains(t, out, "- Court: 2/3")
	assert.Contains(t, out, "- Judge: 0/3")
}

func TestRenderReport_Empty(t *testing.T) {
	assert.Equal(t, "No analysis results available.", RenderReport(nil, nil, time.Now()))
	assert.Equal(t, "No analysis results available.", RenderReport(domain.NewSummary(), nil, time.Now()))
}

func analysisRecord(t *testing.T, verdictID, content string) domain.AnalysisRecord {
	t.Helper()
	data, err := json.Marshal(Analyze(content, time.Now()))
	require.NoError(t, err)
	return domain.AnalysisRecord{VerdictID: verdictID, Kind: KindComprehensive, Data: data}
}

func TestAggregateCorpus(t *testing.T) {
	verdicts := []domain.Verdict{
		{ID: "v1", FileType: "docx", Status: domain.StatusExtracted},
		{ID: "v2", FileType: "docx", Status: domain.StatusFailed},
		{ID: "v3", FileType: "pdf", Status: domain.StatusFailed},
		{ID: "v4", FileType: "", Status: domain.StatusExtracted},
	}
	analyses := map[string][]domain.AnalysisRecord{
		"v1": {
			analysisRecord(t, "v1", "ignored older text"),
			{VerdictID: "v1", Kind: "other", Data: []byte(`{}`)},
			analysisRecord(t, "v1", "בקשה ערעור ערעור"),
		},
		"v2": {analysisRecord(t, "v2", "החלטה בתביעה אחת")},
		"v3": {{VerdictID: "v3", Kind: KindComprehensive, Data: []byte(`not json`)}},
	}

	c := AggregateCorpus(verdicts, analyses)

	assert.Equal(t, 4, c.Verdicts)
	assert.Equal(t, 2, c.Analyzed)
	assert.Equal(t, 3, c.Parsed)
	assert.InDelta(t, 0.75, c.ParseSuccessRate(), 1e-9)
	assert.InDelta(t, 3.0, c.AvgWordCount, 1e-9)
	assert.InDelta(t, 2.5, c.AvgLegalTerms, 1e-9)
	assert.Equal(t, map[string]int{"docx": 2, "pdf": 1, noneKey: 1}, c.ByFileType)
}

func TestAggregateCorpus_Empty(t *testing.T) {
	c := AggregateCorpus(nil, nil)
	assert.Zero(t, c.Verdicts)
	assert.Zero(t, c.ParseSuccessRate())
	assert.Zero(t, c.AvgWordCount)
}

func TestRenderReport_DocumentAnalytics(t *testing.T) {
	s := Aggregate(sampleRecords(), 0.7)
	s.Corpus = domain.CorpusStats{
		Verdicts:      4,
		Parsed:        3,
		Analyzed:      3,
		AvgWordCount:  812.5,
		AvgLegalTerms: 14,
		ByFileType:    map[string]int{"docx": 3, "pdf": 1},
	}

	out := RenderReport(s, nil, time.Now())

	assert.Contains(t, out, "DOCUMENT ANALYTICS:")
	assert.Contains(t, out, "- Parse success rate: 3/4 (75%)")
	assert.Contains(t, out, "- Analyzed documents: 3")
	assert.Contains(t, out, "- Average word count: 812.5")
	assert.Contains(t, out, "- Average legal terms: 14.0")
	assert.Contains(t, out, "FILE TYPE DISTRIBUTION:\n- docx: 3\n- pdf: 1")

	assert.NotContains(t, RenderReport(Aggregate(sampleRecords(), 0.7), nil, time.Now()), "DOCUMENT ANALYTICS:")
}
