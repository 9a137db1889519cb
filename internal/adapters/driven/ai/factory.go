// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/verdict-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/verdict-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/verdict-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/ner/httpner"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// fixHint is appended to configuration errors.
const fixHint = "Run 'verdict config init' or edit the config file to fix"

// InitResult contains the AI services built from configuration.
type InitResult struct {
	LLMServices map[domain.AIProvider]driven.LLMService
	NER         driven.EntityRecognizer
	Warnings    []string // Non-fatal issues; the affected strategy is left out.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	for _, svc := range r.LLMServices {
		svc.Close()
	}
}

// Init builds every configured AI service. A service that cannot be
// created or reached is skipped with a warning; extraction then runs
// without the strategies that need it.
func Init(cfg *domain.Config, validate bool) *InitResult {
	res := &InitResult{LLMServices: map[domain.AIProvider]driven.LLMService{}}

	for _, p := range domain.AllLLMProviders() {
		if _, ok := cfg.LLM[p]; !ok {
			continue
		}
		settings := cfg.LLMFor(p)
		create := CreateLLMService
		if validate {
			create = CreateAndValidateLLMService
		}
		svc, err := create(&settings)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", p, err))
			continue
		}
		if svc != nil {
			res.LLMServices[p] = svc
		}
	}

	if cfg.NER.IsConfigured() {
		create := CreateNERService
		if validate {
			create = CreateAndValidateNERService
		}
		ner, err := create(&cfg.NER)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("ner: %v", err))
		} else if ner != nil {
			res.NER = ner
		}
	}
	return res
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, fixHint)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrLLMUnavailable, err, fixHint)
	}

	return svc, nil
}

// CreateAndValidateNERService creates the NER client and checks the model answers.
func CreateAndValidateNERService(settings *domain.NERSettings) (driven.EntityRecognizer, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateNERService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrNERUnavailable, err, fixHint)
	}

	ctx, cancel := context.WithTimeout(context.Background(), nerPingTimeout(settings))
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("service unreachable (%w). %s", err, fixHint)
	}
	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for `verdict config check`.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateNERConfig pings the configured NER endpoint.
func ValidateNERConfig(settings *domain.NERSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateNERService(settings)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), nerPingTimeout(settings))
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateNERService creates the token-classification client.
// Returns nil if no endpoint is configured.
func CreateNERService(settings *domain.NERSettings) (driven.EntityRecognizer, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	return httpner.New(*settings)
}

// nerPingTimeout allows for a cold model load, which is slower than an LLM ping.
func nerPingTimeout(settings *domain.NERSettings) time.Duration {
	if settings.Timeout > pingTimeout {
		return settings.Timeout
	}
	return pingTimeout
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
