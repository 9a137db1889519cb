package ner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

type fakeRecognizer struct {
	entities []domain.Entity
	err      error
	calls    int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ string) ([]domain.Entity, error) {
	f.calls++
	return f.entities, f.err
}

func (f *fakeRecognizer) Ping(_ context.Context) error { return f.err }

func ent(group, text string) domain.Entity {
	return domain.Entity{Group: group, Text: text, Score: 0.9}
}

func get(t *testing.T, fields domain.RawFields, f domain.FieldName) string {
	t.Helper()
	v, ok := fields.Get(string(f))
	require.True(t, ok, "expected %s", f)
	return v.String()
}

func TestMapEntities(t *testing.T) {
	fields := MapEntities([]domain.Entity{
		ent("ORG", "משרד המשפטים"),
		ent("ORG", "בית המשפט המחוזי"),
		ent("ORG", "בית הדין הרבני"),
		ent("PER", "ישראל ישראלי"),
		ent("PER", "השופט דוד כהן"),
		ent("PER", "משה לוי"),
		ent("MISC", "ערעור"),
		ent("MISC", "12345/23"),
		ent("MISC", "פסק דין"),
		ent("DATE", "15/12/2023"),
		ent("DATE", "1/1/2020"),
		ent("LOC", "תל אביב"),
	})

	assert.Equal(t, "בית המשפט המחוזי", get(t, fields, domain.FieldCourtName))
	assert.Equal(t, "השופט דוד כהן", get(t, fields, domain.FieldJudgeName))
	assert.Equal(t, "ישראל ישראלי", get(t, fields, domain.FieldParties))
	assert.Equal(t, "12345/23", get(t, fields, domain.FieldCaseNumber))
	assert.Equal(t, "12345/23", get(t, fields, domain.FieldVerdictID))
	assert.Equal(t, "פסק דין", get(t, fields, domain.FieldVerdictType))
	assert.Equal(t, "15/12/2023", get(t, fields, domain.FieldVerdictDate))
	assert.Equal(t, "תל אביב", get(t, fields, domain.FieldLocation))

	v, _ := fields.Get(string(domain.FieldParties))
	assert.True(t, v.IsList())
}

func TestMapEntities_DigitsOnlyCaseNumber(t *testing.T) {
	fields := MapEntities([]domain.Entity{ent("MISC", "abc"), ent("MISC", " 4711 ")})

	assert.Equal(t, "4711", get(t, fields, domain.FieldCaseNumber))
}

func TestMapEntities_RabbiIsJudge(t *testing.T) {
	fields := MapEntities([]domain.Entity{ent("per", "הרב יוסף")})

	assert.Equal(t, "הרב יוסף", get(t, fields, domain.FieldJudgeName))
	_, ok := fields.Get(string(domain.FieldParties))
	assert.False(t, ok)
}

func TestMapEntities_NoQualifyingSpans(t *testing.T) {
	fields := MapEntities([]domain.Entity{ent("ORG", "משרד הבריאות"), ent("MISC", "ערעור"), ent("PER", " ")})

	assert.Empty(t, fields)
}

func TestStrategy_Analyze(t *testing.T) {
	rec := &fakeRecognizer{entities: []domain.Entity{ent("LOC", "חיפה")}}
	s := New(rec)

	fields, conf, err := s.Analyze(context.Background(), "doc", "טקסט")
	require.NoError(t, err)
	assert.Equal(t, 1.0, conf)
	assert.Equal(t, "חיפה", get(t, fields, domain.FieldLocation))
	assert.Equal(t, domain.StrategyNER, s.Name())
}

func TestStrategy_Analyze_AnyEntityIsFullConfidence(t *testing.T) {
	s := New(&fakeRecognizer{entities: []domain.Entity{ent("ORG", "משרד הבריאות")}})

	fields, conf, err := s.Analyze(context.Background(), "doc", "טקסט")
	require.NoError(t, err)
	assert.Empty(t, fields)
	assert.Equal(t, 1.0, conf)
}

func TestStrategy_Analyze_BlankSkipsModel(t *testing.T) {
	rec := &fakeRecognizer{}
	fields, conf, err := New(rec).Analyze(context.Background(), "doc", "  \n ")

	require.NoError(t, err)
	assert.Empty(t, fields)
	assert.Zero(t, conf)
	assert.Zero(t, rec.calls)
}

func TestStrategy_Extract_Failure(t *testing.T) {
	s := New(&fakeRecognizer{err: errors.New("connection refused")})

	fields, err := s.Extract(context.Background(), "doc", "טקסט")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNERUnavailable)
	assert.Empty(t, fields)
}

func TestConfidence(t *testing.T) {
	assert.Zero(t, Confidence(nil))
	assert.Equal(t, 1.0, Confidence([]domain.Entity{ent("LOC", "x")}))
}
