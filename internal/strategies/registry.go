// Package strategies wires field-extraction strategies together: a
// registry that builds them by name from configuration, and the
// Selector that runs competing strategies over one text and keeps the
// best mapping.
package strategies

import (
	"fmt"
	"sort"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/patterns"
)

// Deps carries what builders may need. Optional services are nil when
// not configured.
type Deps struct {
	Patterns   *patterns.Registry
	ScanWindow int
	NER        driven.EntityRecognizer
	LLM        map[domain.AIProvider]driven.LLMService
	Limiter    *rate.Limiter

	// Prompts overrides the LLM system prompt when set.
	Prompts driven.PromptStore
}

// BuilderFunc creates a Strategy from shared dependencies.
type BuilderFunc func(deps Deps) (driven.Strategy, error)

// Registry maps strategy names to their builders.
type Registry struct {
	builders map[domain.StrategyName]BuilderFunc
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[domain.StrategyName]BuilderFunc),
	}
}

// Register adds a builder. Name should match the strategy's Name() value.
func (r *Registry) Register(name domain.StrategyName, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a strategy by name.
func (r *Registry) Build(name domain.StrategyName, deps Deps) (driven.Strategy, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownStrategy, name)
	}
	return builder(deps)
}

// Has returns true if a builder is registered under name.
func (r *Registry) Has(name domain.StrategyName) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []domain.StrategyName {
	names := make([]domain.StrategyName, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// NewLimiter returns a limiter allowing rps requests per second with a
// burst of one. A non-positive rps is unlimited.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
