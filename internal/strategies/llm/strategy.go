// Package llm implements the AI-service strategies. Each asks a chat
// model for the fields as JSON, validates the reply and hands back the
// mapping for normal cleaning.
package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/logger"
	"github.com/custodia-labs/verdict-cli/internal/results"
)

// Ensure Strategy implements the interface.
var _ driven.Strategy = (*Strategy)(nil)

// Strategy asks one LLM service for the fields.
type Strategy struct {
	name      domain.StrategyName
	llm       driven.LLMService
	limiter   *rate.Limiter
	validator *results.Validator
	prompts   driven.PromptStore
	maxChars  int
	maxTokens int
}

// Option configures a Strategy.
type Option func(*Strategy)

// WithMaxChars bounds the document text sent in the prompt.
func WithMaxChars(n int) Option {
	return func(s *Strategy) { s.maxChars = n }
}

// WithMaxTokens bounds the reply length.
func WithMaxTokens(n int) Option {
	return func(s *Strategy) { s.maxTokens = n }
}

// WithPrompts loads the system prompt from store, falling back to
// DefaultSystemPrompt when it cannot.
func WithPrompts(store driven.PromptStore) Option {
	return func(s *Strategy) { s.prompts = store }
}

// New creates an LLM strategy. A nil limiter is unpaced.
func New(name domain.StrategyName, svc driven.LLMService, limiter *rate.Limiter, opts ...Option) (*Strategy, error) {
	if _, ok := name.Provider(); !ok {
		return nil, fmt.Errorf("%w: %s is not an AI strategy", domain.ErrUnknownStrategy, name)
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrLLMUnavailable, name)
	}
	validator, err := results.NewFieldsValidator()
	if err != nil {
		return nil, err
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	s := &Strategy{
		name:      name,
		llm:       svc,
		limiter:   limiter,
		validator: validator,
		maxChars:  MaxPromptChars,
		maxTokens: 1024,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the strategy name.
func (s *Strategy) Name() domain.StrategyName {
	return s.name
}

// Extract asks the model for the fields. Transport failures wrap
// domain.ErrLLMUnavailable; unusable replies wrap domain.ErrSchemaViolation.
func (s *Strategy) Extract(ctx context.Context, docID, text string) (domain.RawFields, error) {
	if strings.TrimSpace(text) == "" {
		return domain.RawFields{}, nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: wait for rate limit: %w", s.name, err)
	}

	reply, err := s.llm.Chat(ctx, BuildMessagesWith(s.systemPrompt(), text, s.maxChars), driven.ChatOptions{
		MaxTokens:   s.maxTokens,
		Temperature: 0,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLLMUnavailable, s.name, err)
	}
	logger.Debug("%s (%s): %d byte reply for %s", s.name, s.llm.ModelName(), len(reply), docID)

	data, err := ExtractJSON(reply)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	if err := s.validator.Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	return DecodeFields(data)
}

func (s *Strategy) systemPrompt() string {
	if s.prompts == nil {
		return DefaultSystemPrompt
	}
	tmpl, err := s.prompts.Load(driven.PromptFieldExtraction)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		return DefaultSystemPrompt
	}
	return tmpl
}
