package driven

import "github.com/custodia-labs/verdict-cli/internal/core/domain"

// AIConfigValidator validates external AI configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying services.
type AIConfigValidator interface {
	// ValidateLLM validates an LLM configuration by pinging the provider.
	// Returns nil if configuration is valid or not configured.
	ValidateLLM(config *domain.LLMSettings) error

	// ValidateNER validates an entity-recognition configuration by pinging the service.
	// Returns nil if configuration is valid or not configured.
	ValidateNER(config *domain.NERSettings) error
}
