package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driving"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewVerdicts, "verdicts"},
		{ViewVerdict, "verdict"},
		{ViewExtract, "extract"},
		{ViewReport, "report"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestRecordsLoaded(t *testing.T) {
	msg := RecordsLoaded{Records: []domain.ExtractionRecord{{VerdictID: "v1"}}}

	assert.Len(t, msg.Records, 1)
	assert.NoError(t, msg.Err)
}

func TestVerdictLoaded_WithError(t *testing.T) {
	msg := VerdictLoaded{Err: errors.New("boom")}

	assert.Nil(t, msg.Details)
	assert.EqualError(t, msg.Err, "boom")
}

func TestVerdictLoaded_WithDetails(t *testing.T) {
	msg := VerdictLoaded{Details: &driving.VerdictDetails{Verdict: domain.Verdict{ID: "v1"}}}

	assert.Equal(t, "v1", msg.Details.Verdict.ID)
}
