package domain

import "time"

// AIProvider identifies an external AI service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// ExtractorSettings configures the extraction pipeline.
type ExtractorSettings struct {
	// Mode selects pipeline, ner or select.
	Mode ExtractionMode

	// Strategies is the declared evaluation order for select mode.
	Strategies []StrategyName

	// ScanWindow is how many leading lines the line-scan fallback reads.
	ScanWindow int

	// MaxValueLength truncates longer values, counted in characters.
	MaxValueLength int

	// Timeout bounds the whole extraction of one document.
	Timeout time.Duration

	// Workers bounds batch parallelism across documents.
	Workers int

	// ConfidenceThreshold flags results below it in reports.
	ConfidenceThreshold float64
}

// NERSettings configures the entity-recognition service.
type NERSettings struct {
	// Endpoint is the token-classification URL. Empty disables NER.
	Endpoint string

	// Token is an optional bearer token for hosted inference endpoints.
	Token string

	// Timeout bounds one recognition call.
	Timeout time.Duration
}

// IsConfigured returns true if an endpoint is set.
func (n NERSettings) IsConfigured() bool {
	return n.Endpoint != ""
}

// StorageDriver selects the persistence backend.
type StorageDriver string

// Available storage drivers.
const (
	StorageSQLite   StorageDriver = "sqlite"
	StoragePostgres StorageDriver = "postgres"
	StorageMemory   StorageDriver = "memory"
)

// StorageSettings configures persistence.
type StorageSettings struct {
	// Driver is sqlite, postgres or memory.
	Driver StorageDriver

	// Path is the SQLite database file.
	Path string

	// DSN is the PostgreSQL connection string.
	DSN string
}

// SourceKind selects where batch ingest reads documents from.
type SourceKind string

// Available source kinds.
const (
	SourceLocal SourceKind = "local"
	SourceS3    SourceKind = "s3"
)

// SourceSettings configures the document source.
type SourceSettings struct {
	Kind SourceKind

	// Path is the local directory.
	Path string

	// Bucket, Prefix, Region and Endpoint address an S3-compatible store.
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string

	// AccessKeyID and SecretAccessKey are optional static credentials.
	AccessKeyID     string
	SecretAccessKey string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string
}

// Config is the immutable application configuration.
// It is built once at startup and passed into constructors.
type Config struct {
	Extractor ExtractorSettings

	// Fields are the field specs; empty means the built-in defaults.
	Fields []FieldSpec

	// Synonyms maps raw label variants onto canonical fields, on top of the defaults.
	Synonyms map[string]FieldName

	NER NERSettings

	// LLM holds per-provider settings keyed by provider.
	LLM map[AIProvider]LLMSettings

	// LLMRequestsPerSecond paces calls to LLM-backed strategies; 0 means unpaced.
	LLMRequestsPerSecond float64

	Storage StorageSettings
	Source  SourceSettings
	Server  ServerSettings
}

// DefaultConfig returns settings with sensible defaults.
// AI-backed strategies are left unconfigured.
func DefaultConfig() Config {
	return Config{
		Extractor: ExtractorSettings{
			Mode:                ModePipeline,
			Strategies:          []StrategyName{StrategyRegex},
			ScanWindow:          20,
			MaxValueLength:      500,
			Timeout:             30 * time.Second,
			Workers:             4,
			ConfidenceThreshold: 0.7,
		},
		Synonyms: map[string]FieldName{},
		NER: NERSettings{
			Timeout: 30 * time.Second,
		},
		LLM:                  map[AIProvider]LLMSettings{},
		LLMRequestsPerSecond: 1,
		Storage: StorageSettings{
			Driver: StorageSQLite,
		},
		Source: SourceSettings{
			Kind: SourceLocal,
			Path: "downloads",
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
	}
}

// LLMFor returns the settings for a provider with its default model filled in.
func (c *Config) LLMFor(p AIProvider) LLMSettings {
	s := c.LLM[p]
	s.Provider = p
	if s.Model == "" {
		s.Model = DefaultLLMModels()[p]
	}
	return s
}
