package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

func TestReextractCmd_Text(t *testing.T) {
	ts := setupTestServices(t)
	ts.ingest.reports["v1"] = &driving.IngestReport{
		SourceID: "a.docx", VerdictID: "v1", Status: domain.StatusExtracted, Result: testResult(),
	}

	out, err := execute(t, "", "reextract", "v1", "v2", "-o", "text")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 verdicts failed")
	assert.Contains(t, out, "✓ a.docx")
	assert.Contains(t, out, "3 fields, confidence 0.21")
	assert.Contains(t, out, "✗ v2:")
	assert.Contains(t, out, "not found")
}

func TestReextractCmd_JSON(t *testing.T) {
	ts := setupTestServices(t)
	ts.ingest.reports["v1"] = &driving.IngestReport{
		SourceID: "a.docx", VerdictID: "v1", Status: domain.StatusExtracted, Result: testResult(),
	}

	out, err := execute(t, "", "reextract", "v1", "-o", "json")

	require.NoError(t, err)
	var got []reportOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "v1", got[0].VerdictID)
	assert.Equal(t, domain.StatusExtracted, got[0].Status)
}

func TestReextractCmd_RequiresArgs(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "reextract")

	assert.Error(t, err)
}
