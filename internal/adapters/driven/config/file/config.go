package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// Environment variables read on top of the config file.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
	EnvPostgresDSN  = "VERDICT_PG_DSN"
	EnvNEREndpoint  = "VERDICT_NER_ENDPOINT"
	EnvNERToken     = "HF_TOKEN"
	EnvAWSRegion    = "AWS_REGION"
)

// Config file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

type fileConfig struct {
	Extractor extractorSection  `toml:"extractor" yaml:"extractor"`
	Fields    []fieldSection    `toml:"fields,omitempty" yaml:"fields,omitempty"`
	Synonyms  map[string]string `toml:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	NER       nerSection        `toml:"ner" yaml:"ner"`
	LLM       llmSection        `toml:"llm" yaml:"llm"`
	Storage   storageSection    `toml:"storage" yaml:"storage"`
	Source    sourceSection     `toml:"source" yaml:"source"`
	Server    serverSection     `toml:"server" yaml:"server"`
}

type extractorSection struct {
	Mode                string   `toml:"mode" yaml:"mode"`
	Strategies          []string `toml:"strategies" yaml:"strategies"`
	ScanWindow          int      `toml:"scan_window" yaml:"scan_window"`
	MaxValueLength      int      `toml:"max_value_length" yaml:"max_value_length"`
	Timeout             string   `toml:"timeout" yaml:"timeout"`
	Workers             int      `toml:"workers" yaml:"workers"`
	ConfidenceThreshold float64  `toml:"confidence_threshold" yaml:"confidence_threshold"`
}

type fieldSection struct {
	Name      string   `toml:"name" yaml:"name"`
	Primary   []string `toml:"primary,omitempty" yaml:"primary,omitempty"`
	Fallback  []string `toml:"fallback,omitempty" yaml:"fallback,omitempty"`
	Keywords  []string `toml:"keywords,omitempty" yaml:"keywords,omitempty"`
	Multi     bool     `toml:"multi,omitempty" yaml:"multi,omitempty"`
	FirstLine bool     `toml:"first_line,omitempty" yaml:"first_line,omitempty"`
	Probe     bool     `toml:"probe,omitempty" yaml:"probe,omitempty"`
}

type nerSection struct {
	Endpoint string `toml:"endpoint" yaml:"endpoint"`
	Token    string `toml:"token,omitempty" yaml:"token,omitempty"`
	Timeout  string `toml:"timeout" yaml:"timeout"`
}

type providerSection struct {
	Model   string `toml:"model,omitempty" yaml:"model,omitempty"`
	BaseURL string `toml:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey  string `toml:"api_key,omitempty" yaml:"api_key,omitempty"`
}

type llmSection struct {
	RequestsPerSecond float64          `toml:"requests_per_second" yaml:"requests_per_second"`
	OpenAI            *providerSection `toml:"openai,omitempty" yaml:"openai,omitempty"`
	Anthropic         *providerSection `toml:"anthropic,omitempty" yaml:"anthropic,omitempty"`
	Ollama            *providerSection `toml:"ollama,omitempty" yaml:"ollama,omitempty"`
}

type storageSection struct {
	Driver string `toml:"driver" yaml:"driver"`
	Path   string `toml:"path,omitempty" yaml:"path,omitempty"`
	DSN    string `toml:"dsn,omitempty" yaml:"dsn,omitempty"`
}

type sourceSection struct {
	Kind     string `toml:"kind" yaml:"kind"`
	Path     string `toml:"path,omitempty" yaml:"path,omitempty"`
	Bucket   string `toml:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `toml:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `toml:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `toml:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

type serverSection struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// DefaultDir returns ~/.verdict.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".verdict"), nil
}

// DefaultPath returns ~/.verdict/config.toml.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// FormatFor picks the file format from the extension. Anything that is
// not .yaml or .yml is read as TOML.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// LoadDotEnv loads .env files into the process environment. Missing
// files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the configuration at path and applies environment
// overrides. An empty path reads the default location, where a missing
// file yields the defaults. An explicit path must exist.
func Load(path string) (domain.Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return domain.Config{}, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
		cfg := domain.DefaultConfig()
		ApplyEnv(&cfg, os.Getenv)
		return cfg, nil
	default:
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, FormatFor(path))
	if err != nil {
		return domain.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	ApplyEnv(&cfg, os.Getenv)
	return cfg, nil
}

// Parse decodes a config document over the defaults and validates it.
func Parse(data []byte, format string) (domain.Config, error) {
	fc := fromDomain(domain.DefaultConfig())

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &fc)
	case FormatTOML:
		err = toml.Unmarshal(data, &fc)
	default:
		return domain.Config{}, fmt.Errorf("%w: config format %q", domain.ErrUnsupportedType, format)
	}
	if err != nil {
		return domain.Config{}, fmt.Errorf("%w: decode config: %w", domain.ErrInvalidInput, err)
	}

	return fc.toDomain()
}

// Save writes cfg as TOML with owner-only permissions.
func Save(path string, cfg domain.Config) error {
	data, err := toml.Marshal(fromDomain(cfg))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ApplyEnv fills secrets and endpoints from the environment. Values
// already set in the file win, except that an API key in the
// environment also enables its provider.
func ApplyEnv(cfg *domain.Config, getenv func(string) string) {
	if cfg.LLM == nil {
		cfg.LLM = map[domain.AIProvider]domain.LLMSettings{}
	}
	setKey := func(p domain.AIProvider, key string) {
		if key == "" {
			return
		}
		s := cfg.LLM[p]
		if s.APIKey == "" {
			s.APIKey = key
		}
		cfg.LLM[p] = s
	}
	setKey(domain.AIProviderOpenAI, getenv(EnvOpenAIKey))
	setKey(domain.AIProviderAnthropic, getenv(EnvAnthropicKey))

	if host := getenv(EnvOllamaHost); host != "" {
		if s, ok := cfg.LLM[domain.AIProviderOllama]; ok && s.BaseURL == "" {
			s.BaseURL = host
			cfg.LLM[domain.AIProviderOllama] = s
		}
	}
	if dsn := getenv(EnvPostgresDSN); dsn != "" && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = dsn
	}
	if ep := getenv(EnvNEREndpoint); ep != "" && cfg.NER.Endpoint == "" {
		cfg.NER.Endpoint = ep
	}
	if token := getenv(EnvNERToken); token != "" && cfg.NER.Token == "" {
		cfg.NER.Token = token
	}
	if region := getenv(EnvAWSRegion); region != "" && cfg.Source.Region == "" {
		cfg.Source.Region = region
	}
}

func fromDomain(cfg domain.Config) fileConfig {
	fc := fileConfig{
		Extractor: extractorSection{
			Mode:                string(cfg.Extractor.Mode),
			ScanWindow:          cfg.Extractor.ScanWindow,
			MaxValueLength:      cfg.Extractor.MaxValueLength,
			Timeout:             cfg.Extractor.Timeout.String(),
			Workers:             cfg.Extractor.Workers,
			ConfidenceThreshold: cfg.Extractor.ConfidenceThreshold,
		},
		NER: nerSection{
			Endpoint: cfg.NER.Endpoint,
			Token:    cfg.NER.Token,
			Timeout:  cfg.NER.Timeout.String(),
		},
		LLM: llmSection{RequestsPerSecond: cfg.LLMRequestsPerSecond},
		Storage: storageSection{
			Driver: string(cfg.Storage.Driver),
			Path:   cfg.Storage.Path,
			DSN:    cfg.Storage.DSN,
		},
		Source: sourceSection{
			Kind:     string(cfg.Source.Kind),
			Path:     cfg.Source.Path,
			Bucket:   cfg.Source.Bucket,
			Prefix:   cfg.Source.Prefix,
			Region:   cfg.Source.Region,
			Endpoint: cfg.Source.Endpoint,
		},
		Server: serverSection{Addr: cfg.Server.Addr},
	}
	for _, s := range cfg.Extractor.Strategies {
		fc.Extractor.Strategies = append(fc.Extractor.Strategies, string(s))
	}
	for _, spec := range cfg.Fields {
		fc.Fields = append(fc.Fields, fieldSection{
			Name:      string(spec.Name),
			Primary:   spec.Primary,
			Fallback:  spec.Fallback,
			Keywords:  spec.Keywords,
			Multi:     spec.Multi,
			FirstLine: spec.FirstLine,
			Probe:     spec.Probe,
		})
	}
	if len(cfg.Synonyms) > 0 {
		fc.Synonyms = make(map[string]string, len(cfg.Synonyms))
		for k, v := range cfg.Synonyms {
			fc.Synonyms[k] = string(v)
		}
	}
	provider := func(p domain.AIProvider) *providerSection {
		s, ok := cfg.LLM[p]
		if !ok {
			return nil
		}
		return &providerSection{Model: s.Model, BaseURL: s.BaseURL, APIKey: s.APIKey}
	}
	fc.LLM.OpenAI = provider(domain.AIProviderOpenAI)
	fc.LLM.Anthropic = provider(domain.AIProviderAnthropic)
	fc.LLM.Ollama = provider(domain.AIProviderOllama)
	return fc
}

//nolint:gocyclo // Flat validation of every config section
func (fc fileConfig) toDomain() (domain.Config, error) {
	cfg := domain.DefaultConfig()

	mode := domain.ExtractionMode(fc.Extractor.Mode)
	if !mode.IsValid() {
		return cfg, fmt.Errorf("%w: extractor.mode %q", domain.ErrInvalidInput, fc.Extractor.Mode)
	}
	cfg.Extractor.Mode = mode

	cfg.Extractor.Strategies = nil
	for _, s := range fc.Extractor.Strategies {
		name := domain.StrategyName(strings.TrimSpace(s))
		if !knownStrategy(name) {
			return cfg, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, s)
		}
		cfg.Extractor.Strategies = append(cfg.Extractor.Strategies, name)
	}

	if fc.Extractor.ScanWindow <= 0 {
		return cfg, fmt.Errorf("%w: extractor.scan_window must be positive", domain.ErrInvalidInput)
	}
	cfg.Extractor.ScanWindow = fc.Extractor.ScanWindow

	if fc.Extractor.MaxValueLength <= 0 {
		return cfg, fmt.Errorf("%w: extractor.max_value_length must be positive", domain.ErrInvalidInput)
	}
	cfg.Extractor.MaxValueLength = fc.Extractor.MaxValueLength

	timeout, err := parseDuration("extractor.timeout", fc.Extractor.Timeout)
	if err != nil {
		return cfg, err
	}
	cfg.Extractor.Timeout = timeout
	cfg.Extractor.Workers = fc.Extractor.Workers

	if fc.Extractor.ConfidenceThreshold < 0 || fc.Extractor.ConfidenceThreshold > 1 {
		return cfg, fmt.Errorf("%w: extractor.confidence_threshold must be in [0,1]", domain.ErrInvalidInput)
	}
	cfg.Extractor.ConfidenceThreshold = fc.Extractor.ConfidenceThreshold

	for i, f := range fc.Fields {
		name := domain.FieldName(f.Name)
		if !name.IsValid() {
			return cfg, fmt.Errorf("fields[%d]: %w: %q", i, domain.ErrUnknownField, f.Name)
		}
		cfg.Fields = append(cfg.Fields, domain.FieldSpec{
			Name:      name,
			Primary:   f.Primary,
			Fallback:  f.Fallback,
			Keywords:  f.Keywords,
			Multi:     f.Multi,
			FirstLine: f.FirstLine,
			Probe:     f.Probe,
		})
	}

	for label, target := range fc.Synonyms {
		cfg.Synonyms[label] = domain.FieldName(target)
	}

	cfg.NER.Endpoint = fc.NER.Endpoint
	cfg.NER.Token = fc.NER.Token
	if cfg.NER.Timeout, err = parseDuration("ner.timeout", fc.NER.Timeout); err != nil {
		return cfg, err
	}

	cfg.LLMRequestsPerSecond = fc.LLM.RequestsPerSecond
	for p, s := range map[domain.AIProvider]*providerSection{
		domain.AIProviderOpenAI:    fc.LLM.OpenAI,
		domain.AIProviderAnthropic: fc.LLM.Anthropic,
		domain.AIProviderOllama:    fc.LLM.Ollama,
	} {
		if s != nil {
			cfg.LLM[p] = domain.LLMSettings{Provider: p, Model: s.Model, BaseURL: s.BaseURL, APIKey: s.APIKey}
		}
	}

	switch d := domain.StorageDriver(fc.Storage.Driver); d {
	case domain.StorageSQLite, domain.StoragePostgres, domain.StorageMemory:
		cfg.Storage.Driver = d
	default:
		return cfg, fmt.Errorf("%w: storage driver %q", domain.ErrUnsupportedType, fc.Storage.Driver)
	}
	cfg.Storage.Path = fc.Storage.Path
	cfg.Storage.DSN = fc.Storage.DSN

	switch k := domain.SourceKind(fc.Source.Kind); k {
	case domain.SourceLocal, domain.SourceS3:
		cfg.Source.Kind = k
	default:
		return cfg, fmt.Errorf("%w: source kind %q", domain.ErrUnsupportedType, fc.Source.Kind)
	}
	cfg.Source.Path = fc.Source.Path
	cfg.Source.Bucket = fc.Source.Bucket
	cfg.Source.Prefix = fc.Source.Prefix
	cfg.Source.Region = fc.Source.Region
	cfg.Source.Endpoint = fc.Source.Endpoint
	if cfg.Source.Kind == domain.SourceS3 && cfg.Source.Bucket == "" {
		return cfg, fmt.Errorf("%w: source.bucket is required for s3", domain.ErrInvalidInput)
	}

	cfg.Server.Addr = fc.Server.Addr
	return cfg, nil
}

func knownStrategy(name domain.StrategyName) bool {
	for _, s := range domain.AllStrategies() {
		if s == name {
			return true
		}
	}
	return false
}

func parseDuration(key, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	return d, nil
}
