package strategies

import (
	"context"
	"fmt"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/logger"
	"github.com/custodia-labs/verdict-cli/internal/results"
)

// Selector runs every enabled strategy over the same text and keeps the
// mapping with the most non-empty recognised fields. Strategies run one
// after the other in declared order; the first declared wins a tie.
type Selector struct {
	strategies []driven.Strategy
	synonyms   *results.Synonyms
}

// NewSelector creates a selector over strategies in evaluation order.
// synonyms decides which labels score; nil uses the built-in table.
func NewSelector(synonyms *results.Synonyms, strategies ...driven.Strategy) *Selector {
	return &Selector{strategies: strategies, synonyms: synonyms}
}

// Names returns the strategy names in evaluation order.
func (s *Selector) Names() []domain.StrategyName {
	names := make([]domain.StrategyName, 0, len(s.strategies))
	for _, st := range s.strategies {
		names = append(names, st.Name())
	}
	return names
}

// Len returns the number of strategies.
func (s *Selector) Len() int {
	return len(s.strategies)
}

// Select evaluates all strategies. A failing strategy scores 0 and
// cannot win. With no strategies, or none scoring above 0, the result
// has an empty mapping, no best strategy and a best score of 0.
func (s *Selector) Select(ctx context.Context, docID, text string) *domain.Selection {
	sel := &domain.Selection{
		Fields: domain.RawFields{},
		Scores: make([]domain.StrategyScore, 0, len(s.strategies)),
	}

	for _, st := range s.strategies {
		fields, err := run(ctx, st, docID, text)
		score := domain.StrategyScore{Name: st.Name()}
		if err != nil {
			logger.Warn("strategy %s failed for %s: %v", st.Name(), docID, err)
			score.Err = err.Error()
			sel.Scores = append(sel.Scores, score)
			continue
		}

		score.Score = results.CountFilled(fields, s.synonyms)
		sel.Scores = append(sel.Scores, score)
		logger.Debug("strategy %s scored %d for %s", st.Name(), score.Score, docID)

		if score.Score > sel.BestScore {
			sel.Fields = fields
			sel.Best = st.Name()
			sel.BestScore = score.Score
		}
	}

	return sel
}

// run calls one strategy and turns a panic into an error.
func run(ctx context.Context, st driven.Strategy, docID, text string) (fields domain.RawFields, err error) {
	defer func() {
		if r := recover(); r != nil {
			fields, err = nil, fmt.Errorf("%w: %v", domain.ErrStrategyFailed, r)
		}
	}()
	return st.Extract(ctx, docID, text)
}
