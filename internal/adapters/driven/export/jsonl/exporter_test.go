package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

func TestExport(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := domain.NewEmptyResult("a.txt", at)
	r.Fields[domain.FieldCaseNumber] = domain.Text("1234/20")

	recs := []domain.ExtractionRecord{
		{VerdictID: "v1", Mode: domain.ModePipeline, Strategy: domain.StrategyRegex, Confidence: 0.5, Result: r},
		{VerdictID: "v2", Mode: domain.ModeNER, Confidence: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, New().Export(context.Background(), &buf, recs, nil))

	sc := bufio.NewScanner(&buf)
	var lines []map[string]any
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, "v1", lines[0]["verdict_id"])
	result := lines[0]["result"].(map[string]any)
	assert.Equal(t, "1234/20", result["case_number"])
	assert.Nil(t, result["court_name"])

	assert.Equal(t, "ner", lines[1]["mode"])
	assert.Nil(t, lines[1]["result"])
	assert.NotContains(t, lines[1], "strategy")
}

func TestExport_HebrewNotEscaped(t *testing.T) {
	r := domain.NewEmptyResult("", time.Now())
	r.Fields[domain.FieldJudgeName] = domain.Text(`כבוד השופט א' <כהן>`)

	var buf bytes.Buffer
	require.NoError(t, New().Export(context.Background(), &buf,
		[]domain.ExtractionRecord{{VerdictID: "v1", Result: r}}, nil))
	assert.Contains(t, buf.String(), "<כהן>")
}
