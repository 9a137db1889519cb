package strategies

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/patterns"
	"github.com/custodia-labs/verdict-cli/internal/strategies/regex"
)

type fixedStrategy struct {
	name   domain.StrategyName
	fields domain.RawFields
	err    error
	panics bool
}

func (f *fixedStrategy) Name() domain.StrategyName { return f.name }

func (f *fixedStrategy) Extract(_ context.Context, _, _ string) (domain.RawFields, error) {
	if f.panics {
		panic("strategy exploded")
	}
	return f.fields, f.err
}

func filled(n int) domain.RawFields {
	out := domain.RawFields{}
	for i, f := range domain.AllFields()[:n] {
		out.Set(string(f), domain.Text(string(rune('a'+i))))
	}
	return out
}

func TestSelector_HighestScoreWins(t *testing.T) {
	a := &fixedStrategy{name: "A", fields: filled(3)}
	b := &fixedStrategy{name: "B", fields: filled(5)}

	for _, order := range [][]*fixedStrategy{{a, b}, {b, a}} {
		sel := NewSelector(nil, order[0], order[1]).Select(context.Background(), "doc", "text")

		assert.Equal(t, domain.StrategyName("B"), sel.Best)
		assert.Equal(t, 5, sel.BestScore)
		assert.True(t, b.fields.Equal(sel.Fields))
		assert.Equal(t, map[string]int{"A": 3, "B": 5}, sel.ScoreMap())
	}
}

func TestSelector_TieKeepsFirstDeclared(t *testing.T) {
	a := &fixedStrategy{name: "A", fields: filled(4)}
	b := &fixedStrategy{name: "B", fields: filled(4)}

	sel := NewSelector(nil, b, a).Select(context.Background(), "doc", "text")
	assert.Equal(t, domain.StrategyName("B"), sel.Best)

	sel = NewSelector(nil, a, b).Select(context.Background(), "doc", "text")
	assert.Equal(t, domain.StrategyName("A"), sel.Best)
}

func TestSelector_BlankValuesDoNotScore(t *testing.T) {
	a := &fixedStrategy{name: "A", fields: domain.RawFields{
		{Name: "court_name", Value: domain.Text(" ")},
		{Name: "judge_name", Value: domain.Text("x")},
	}}

	sel := NewSelector(nil, a).Select(context.Background(), "doc", "text")
	assert.Equal(t, 1, sel.BestScore)
}

func TestSelector_UnknownLabelsDoNotScore(t *testing.T) {
	chatty := &fixedStrategy{name: domain.StrategyOpenAI, fields: domain.RawFields{
		{Name: "notes", Value: domain.Text("a")},
		{Name: "headline", Value: domain.Text("b")},
		{Name: "topic", Value: domain.Text("c")},
		{Name: "court", Value: domain.Text("בית המשפט העליון")},
	}}
	rx := &fixedStrategy{name: domain.StrategyRegex, fields: filled(2)}

	sel := NewSelector(nil, chatty, rx).Select(context.Background(), "doc", "text")
	assert.Equal(t, domain.StrategyRegex, sel.Best)
	assert.Equal(t, 2, sel.BestScore)
	score, ok := sel.Score(domain.StrategyOpenAI)
	require.True(t, ok)
	assert.Equal(t, 1, score)
}

func TestSelector_NoStrategies(t *testing.T) {
	sel := NewSelector(nil).Select(context.Background(), "doc", "text")

	assert.Empty(t, sel.Fields)
	assert.Empty(t, sel.Best)
	assert.Zero(t, sel.BestScore)
	assert.Empty(t, sel.Scores)
}

func TestSelector_AllEmpty(t *testing.T) {
	sel := NewSelector(nil,
		&fixedStrategy{name: "A"},
		&fixedStrategy{name: "B", fields: domain.RawFields{}},
	).Select(context.Background(), "doc", "text")

	assert.Empty(t, sel.Fields)
	assert.Empty(t, sel.Best)
	assert.Zero(t, sel.BestScore)
	require.Len(t, sel.Scores, 2)
}

func TestSelector_FailureIsIsolated(t *testing.T) {
	sel := NewSelector(nil,
		&fixedStrategy{name: "ner", err: errors.New("unreachable")},
		&fixedStrategy{name: "boom", panics: true},
		&fixedStrategy{name: "regex", fields: filled(2)},
	).Select(context.Background(), "doc", "text")

	assert.Equal(t, domain.StrategyName("regex"), sel.Best)
	assert.Equal(t, "unreachable", sel.Scores[0].Err)
	assert.Contains(t, sel.Scores[1].Err, "strategy exploded")
	score, ok := sel.Score("boom")
	assert.True(t, ok)
	assert.Zero(t, score)
}

func TestSelector_WithRegex(t *testing.T) {
	rx := regex.New(patterns.Default(), regex.DefaultWindow)
	weak := &fixedStrategy{name: domain.StrategyOpenAI, fields: filled(1)}

	s := NewSelector(nil, weak, rx)
	assert.Equal(t, []domain.StrategyName{domain.StrategyOpenAI, domain.StrategyRegex}, s.Names())
	assert.Equal(t, 2, s.Len())

	sel := s.Select(context.Background(), "doc",
		"בית המשפט המחוזי בתל אביב\nכבוד השופט דוד כהן\nתיק 12345/23\nתאריך: 15/12/2023")
	assert.Equal(t, domain.StrategyRegex, sel.Best)
	assert.Equal(t, 6, sel.BestScore)
}
