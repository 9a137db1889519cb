package strategies

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/logger"
	"github.com/custodia-labs/verdict-cli/internal/strategies/llm"
	"github.com/custodia-labs/verdict-cli/internal/strategies/ner"
	"github.com/custodia-labs/verdict-cli/internal/strategies/regex"
)

// RegisterDefaults registers every built-in strategy.
func RegisterDefaults(r *Registry) {
	r.Register(domain.StrategyRegex, buildRegex)
	r.Register(domain.StrategyNER, buildNER)
	for _, name := range []domain.StrategyName{domain.StrategyOpenAI, domain.StrategyAnthropic, domain.StrategyOllama} {
		r.Register(name, llmBuilder(name))
	}
}

// DefaultRegistry returns a registry with the built-in strategies.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

func buildRegex(deps Deps) (driven.Strategy, error) {
	if deps.Patterns == nil {
		return nil, fmt.Errorf("%w: pattern registry", domain.ErrNotConfigured)
	}
	return regex.New(deps.Patterns, deps.ScanWindow), nil
}

func buildNER(deps Deps) (driven.Strategy, error) {
	if deps.NER == nil {
		return nil, fmt.Errorf("%w: ner endpoint", domain.ErrNotConfigured)
	}
	return ner.New(deps.NER), nil
}

func llmBuilder(name domain.StrategyName) BuilderFunc {
	return func(deps Deps) (driven.Strategy, error) {
		provider, _ := name.Provider()
		svc := deps.LLM[provider]
		if svc == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotConfigured, provider)
		}
		var opts []llm.Option
		if deps.Prompts != nil {
			opts = append(opts, llm.WithPrompts(deps.Prompts))
		}
		return llm.New(name, svc, deps.Limiter, opts...)
	}
}

// BuildAll builds the declared strategies in order. Unknown names fail;
// AI slots whose service is not configured are skipped with a warning.
func (r *Registry) BuildAll(names []domain.StrategyName, deps Deps) ([]driven.Strategy, error) {
	out := make([]driven.Strategy, 0, len(names))
	seen := make(map[domain.StrategyName]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		s, err := r.Build(name, deps)
		if errors.Is(err, domain.ErrNotConfigured) {
			logger.Warn("strategy %s disabled: %v", name, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
