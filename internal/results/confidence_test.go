package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name            string
		present, filled int
		want            float64
	}{
		{"nothing present", 0, 0, 0},
		{"all survived", 4, 4, 1},
		{"half survived", 4, 2, 0.5},
		{"more filled than present clamps", 2, 3, 1},
		{"negative present", -1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Confidence(tt.present, tt.filled), 1e-9)
		})
	}
}

func TestCountFilled(t *testing.T) {
	fields := domain.RawFields{
		{Name: "court_name", Value: domain.Text("x")},
		{Name: "judge_name", Value: domain.Text(" ")},
		{Name: "parties", Value: domain.List("", "y")},
		{Name: "lawyers", Value: domain.List()},
		{Name: "שופט", Value: domain.Text("z")},
	}
	assert.Equal(t, 3, CountFilled(fields, nil))
}

func TestCountFilled_IgnoresUnknownLabels(t *testing.T) {
	fields := domain.RawFields{
		{Name: "court_name", Value: domain.Text("x")},
		{Name: "notes", Value: domain.Text("y")},
		{Name: "headline", Value: domain.Text("z")},
		{Name: "נושא", Value: domain.Text("w")},
	}
	assert.Equal(t, 1, CountFilled(fields, nil))

	syn, err := NewSynonyms(map[string]domain.FieldName{"headline": domain.FieldSummary})
	require.NoError(t, err)
	assert.Equal(t, 2, CountFilled(fields, syn))
}
