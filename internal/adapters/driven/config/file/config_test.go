package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

const sampleTOML = `
[extractor]
mode = "select"
strategies = ["openai", "regex", "ner"]
scan_window = 30
timeout = "45s"
workers = 8
confidence_threshold = 0.5

[[fields]]
name = "court_name"
primary = ['בית (?:המשפט|הדין)[^\n]*']
keywords = ["בית המשפט"]
first_line = true

[synonyms]
"ערכאה" = "court_name"

[ner]
endpoint = "http://localhost:9000/ner"

[llm]
requests_per_second = 2.5

[llm.openai]
model = "gpt-4o"

[storage]
driver = "postgres"
dsn = "postgres://localhost/verdicts"

[source]
kind = "s3"
bucket = "verdicts"
prefix = "2024/"
`

const sampleYAML = `
extractor:
  mode: ner
  strategies: [regex]
storage:
  driver: memory
source:
  kind: local
  path: /data/verdicts
llm:
  anthropic:
    api_key: sk-test
`

func noEnv(string) string { return "" }

func TestParse_TOML(t *testing.T) {
	cfg, err := Parse([]byte(sampleTOML), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, domain.ModeSelect, cfg.Extractor.Mode)
	assert.Equal(t, []domain.StrategyName{domain.StrategyOpenAI, domain.StrategyRegex, domain.StrategyNER}, cfg.Extractor.Strategies)
	assert.Equal(t, 30, cfg.Extractor.ScanWindow)
	assert.Equal(t, 500, cfg.Extractor.MaxValueLength)
	assert.Equal(t, 45*time.Second, cfg.Extractor.Timeout)
	assert.Equal(t, 8, cfg.Extractor.Workers)
	assert.InDelta(t, 0.5, cfg.Extractor.ConfidenceThreshold, 1e-9)

	require.Len(t, cfg.Fields, 1)
	assert.Equal(t, domain.FieldCourtName, cfg.Fields[0].Name)
	assert.True(t, cfg.Fields[0].FirstLine)
	assert.Equal(t, domain.FieldCourtName, cfg.Synonyms["ערכאה"])

	assert.Equal(t, "http://localhost:9000/ner", cfg.NER.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.NER.Timeout)
	assert.InDelta(t, 2.5, cfg.LLMRequestsPerSecond, 1e-9)
	assert.Equal(t, "gpt-4o", cfg.LLM[domain.AIProviderOpenAI].Model)
	assert.NotContains(t, cfg.LLM, domain.AIProviderAnthropic)

	assert.Equal(t, domain.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://localhost/verdicts", cfg.Storage.DSN)
	assert.Equal(t, domain.SourceS3, cfg.Source.Kind)
	assert.Equal(t, "verdicts", cfg.Source.Bucket)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestParse_YAML(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, domain.ModeNER, cfg.Extractor.Mode)
	assert.Equal(t, []domain.StrategyName{domain.StrategyRegex}, cfg.Extractor.Strategies)
	assert.Equal(t, 20, cfg.Extractor.ScanWindow)
	assert.Equal(t, domain.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "/data/verdicts", cfg.Source.Path)
	assert.Equal(t, "sk-test", cfg.LLM[domain.AIProviderAnthropic].APIKey)
	assert.True(t, cfg.LLMFor(domain.AIProviderAnthropic).IsConfigured())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil, FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"syntax", "[extractor\nmode=", domain.ErrInvalidInput},
		{"mode", "[extractor]\nmode = \"fast\"", domain.ErrInvalidInput},
		{"strategy", "[extractor]\nstrategies = [\"gemini\"]", domain.ErrUnknownStrategy},
		{"window", "[extractor]\nscan_window = 0", domain.ErrInvalidInput},
		{"threshold", "[extractor]\nconfidence_threshold = 2.0", domain.ErrInvalidInput},
		{"timeout", "[extractor]\ntimeout = \"soon\"", domain.ErrInvalidInput},
		{"field", "[[fields]]\nname = \"plaintiff\"", domain.ErrUnknownField},
		{"storage", "[storage]\ndriver = \"mongo\"", domain.ErrUnsupportedType},
		{"source", "[source]\nkind = \"ftp\"", domain.ErrUnsupportedType},
		{"bucket", "[source]\nkind = \"s3\"", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), FormatTOML)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse([]byte("{}"), "json")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("config.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("CONFIG.YML"))
	assert.Equal(t, FormatTOML, FormatFor("config.toml"))
	assert.Equal(t, FormatTOML, FormatFor("config"))
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeNER, cfg.Extractor.Mode)
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want, err := Parse([]byte(sampleTOML), FormatTOML)
	require.NoError(t, err)

	require.NoError(t, Save(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.Extractor, got.Extractor)
	assert.Equal(t, want.Fields, got.Fields)
	assert.Equal(t, want.Storage, got.Storage)
	assert.Equal(t, want.Source.Bucket, got.Source.Bucket)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvOpenAIKey:   "sk-openai",
		EnvOllamaHost:  "http://gpu:11434",
		EnvPostgresDSN: "postgres://env/db",
		EnvNEREndpoint: "http://ner:8000",
		EnvAWSRegion:   "eu-west-1",
	}
	cfg := domain.DefaultConfig()
	cfg.LLM[domain.AIProviderOllama] = domain.LLMSettings{Provider: domain.AIProviderOllama}

	ApplyEnv(&cfg, func(k string) string { return env[k] })

	assert.Equal(t, "sk-openai", cfg.LLM[domain.AIProviderOpenAI].APIKey)
	assert.NotContains(t, cfg.LLM, domain.AIProviderAnthropic)
	assert.Equal(t, "http://gpu:11434", cfg.LLM[domain.AIProviderOllama].BaseURL)
	assert.Equal(t, "postgres://env/db", cfg.Storage.DSN)
	assert.Equal(t, "http://ner:8000", cfg.NER.Endpoint)
	assert.Equal(t, "eu-west-1", cfg.Source.Region)
}

func TestApplyEnv_FileWins(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.LLM[domain.AIProviderOpenAI] = domain.LLMSettings{APIKey: "from-file"}
	cfg.Storage.DSN = "postgres://file/db"

	ApplyEnv(&cfg, func(k string) string { return "from-env" })

	assert.Equal(t, "from-file", cfg.LLM[domain.AIProviderOpenAI].APIKey)
	assert.Equal(t, "postgres://file/db", cfg.Storage.DSN)

	ApplyEnv(&cfg, noEnv)
	assert.Equal(t, "from-file", cfg.LLM[domain.AIProviderOpenAI].APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("VERDICT_TEST_DOTENV=loaded\n"), 0600))
	t.Setenv("VERDICT_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("VERDICT_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("VERDICT_TEST_DOTENV"))
}
