package results

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

func TestValidator_AcceptsNormalizedResult(t *testing.T) {
	v, err := NewValidator(DefaultMaxLength)
	require.NoError(t, err)

	r := NewNormalizer(nil, nil, 0).Result("doc", domain.RawFields{
		{Name: "court_name", Value: domain.Text("בית המשפט העליון")},
		{Name: "parties", Value: domain.Text("א, ב")},
	}, domain.StrategyRegex, time.Now())

	assert.NoError(t, v.ValidateResult(r))
}

func TestValidator_AcceptsEmptyResult(t *testing.T) {
	v, err := NewValidator(0)
	require.NoError(t, err)

	assert.NoError(t, v.ValidateResult(domain.NewEmptyResult("", time.Now())))
}

func TestValidator_RejectsOversizedValue(t *testing.T) {
	v, err := NewValidator(10)
	require.NoError(t, err)

	r := domain.NewEmptyResult("doc", time.Now())
	r.Fields[domain.FieldSummary] = domain.Text(strings.Repeat("x", 11))

	err = v.ValidateResult(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestValidator_RejectsBadConfidence(t *testing.T) {
	v, err := NewValidator(DefaultMaxLength)
	require.NoError(t, err)

	r := domain.NewEmptyResult("doc", time.Now())
	r.Confidence = 1.5

	assert.ErrorIs(t, v.ValidateResult(r), domain.ErrSchemaViolation)
}

func TestValidator_RejectsEmptyString(t *testing.T) {
	v, err := NewValidator(DefaultMaxLength)
	require.NoError(t, err)

	r := domain.NewEmptyResult("doc", time.Now())
	r.Fields[domain.FieldJudgeName] = domain.Text("")

	assert.ErrorIs(t, v.ValidateResult(r), domain.ErrSchemaViolation)
}

func TestValidator_RejectsMalformedJSON(t *testing.T) {
	v, err := NewValidator(DefaultMaxLength)
	require.NoError(t, err)

	assert.ErrorIs(t, v.Validate([]byte("{")), domain.ErrSchemaViolation)
}

func TestFieldsValidator(t *testing.T) {
	v, err := NewFieldsValidator()
	require.NoError(t, err)

	ok, _ := json.Marshal(map[string]any{
		"court_name": "בית המשפט",
		"parties":    []string{"a", "b"},
		"judge_name": nil,
		"נתבעים":     []string{"c"},
	})
	assert.NoError(t, v.Validate(ok))

	bad, _ := json.Marshal(map[string]any{"court_name": map[string]any{"x": 1}})
	assert.ErrorIs(t, v.Validate(bad), domain.ErrSchemaViolation)

	assert.ErrorIs(t, v.Validate([]byte(`["not", "an", "object"]`)), domain.ErrSchemaViolation)
}
