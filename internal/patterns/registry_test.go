package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

func TestCompile_Defaults(t *testing.T) {
	r, err := Compile(DefaultSpecs())
	require.NoError(t, err)

	assert.Equal(t, len(DefaultSpecs()), r.Len())
	court, ok := r.Field(domain.FieldCourtName)
	require.True(t, ok)
	assert.NotEmpty(t, court.Primary())
	assert.NotEmpty(t, court.Keywords())
	assert.True(t, court.FirstLine())

	date, ok := r.Field(domain.FieldVerdictDate)
	require.True(t, ok)
	assert.True(t, date.Probe())
	assert.Len(t, date.Fallback(), 3)
}

func TestCompile_InvalidPattern(t *testing.T) {
	specs := []domain.FieldSpec{
		{Name: domain.FieldCourtName, Primary: []string{`בית (המשפט`}},
	}

	r, err := Compile(specs)
	assert.Nil(t, r)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPattern)
	assert.Contains(t, err.Error(), "court_name primary[0]")
}

func TestCompile_InvalidFallback(t *testing.T) {
	specs := []domain.FieldSpec{
		{Name: domain.FieldJudgeName, Fallback: []string{`ok`, `(?P<x`}},
	}

	_, err := Compile(specs)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPattern)
	assert.Contains(t, err.Error(), "judge_name fallback[1]")
}

func TestCompile_EmptyPattern(t *testing.T) {
	_, err := Compile([]domain.FieldSpec{{Name: domain.FieldSummary, Primary: []string{"  "}}})
	assert.ErrorIs(t, err, domain.ErrInvalidPattern)
}

func TestCompile_UnknownField(t *testing.T) {
	_, err := Compile([]domain.FieldSpec{{Name: "court"}})
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestCompile_DuplicateField(t *testing.T) {
	_, err := Compile([]domain.FieldSpec{
		{Name: domain.FieldCourtName},
		{Name: domain.FieldCourtName},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompile_CaseInsensitiveMultiline(t *testing.T) {
	r, err := Compile([]domain.FieldSpec{
		{Name: domain.FieldSummary, Primary: []string{`^summary:\s*(.+)$`}},
	})
	require.NoError(t, err)

	f, _ := r.Field(domain.FieldSummary)
	m := f.Primary()[0].FindStringSubmatch("header\nSUMMARY: appeal dismissed\nfooter")
	require.Len(t, m, 2)
	assert.Equal(t, "appeal dismissed", m[1])
}

func TestRegistry_IsImmutable(t *testing.T) {
	specs := []domain.FieldSpec{
		{Name: domain.FieldCourtName, Keywords: []string{"בית המשפט"}},
	}
	r, err := Compile(specs)
	require.NoError(t, err)

	specs[0].Keywords[0] = "changed"
	fields := r.Fields()
	fields[0] = nil

	f, ok := r.Field(domain.FieldCourtName)
	require.True(t, ok)
	assert.Equal(t, []string{"בית המשפט"}, f.Keywords())
	assert.NotNil(t, r.Fields()[0])

	got := r.Specs()
	got[0].Keywords[0] = "changed again"
	assert.Equal(t, []string{"בית המשפט"}, r.Specs()[0].Keywords)
}

func TestRegistry_Multi(t *testing.T) {
	r, err := Compile([]domain.FieldSpec{
		{Name: domain.FieldParties, Multi: false},
	})
	require.NoError(t, err)

	assert.False(t, r.Multi(domain.FieldParties))
	assert.True(t, r.Multi(domain.FieldRespondents))
	assert.False(t, r.Multi(domain.FieldCourtName))
}

func TestDefault(t *testing.T) {
	assert.NotPanics(t, func() {
		r := Default()
		assert.Positive(t, r.Len())
	})
}

func TestField_HasKeyword(t *testing.T) {
	r, err := Compile([]domain.FieldSpec{
		{Name: domain.FieldJudgeName, Keywords: []string{"", "השופט"}},
	})
	require.NoError(t, err)

	f, _ := r.Field(domain.FieldJudgeName)
	assert.True(t, f.HasKeyword("לפני כבוד השופט לוי"))
	assert.False(t, f.HasKeyword("בית המשפט המחוזי"))
}
