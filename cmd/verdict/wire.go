package main

import (
	"context"
	"fmt"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/export/jsonl"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/export/xlsx"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/source/local"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/source/s3"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/verdict-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/core/services"
	"github.com/custodia-labs/verdict-cli/internal/logger"
	"github.com/custodia-labs/verdict-cli/internal/normalisers"
	"github.com/custodia-labs/verdict-cli/internal/patterns"
	"github.com/custodia-labs/verdict-cli/internal/results"
	"github.com/custodia-labs/verdict-cli/internal/strategies"
	"github.com/custodia-labs/verdict-cli/internal/strategies/llm"
	nerstrategy "github.com/custodia-labs/verdict-cli/internal/strategies/ner"
	"github.com/custodia-labs/verdict-cli/internal/strategies/regex"
)

// storeSet is the persistence backend behind the store ports.
type storeSet struct {
	verdicts    driven.VerdictStore
	extractions driven.ExtractionStore
	analyses    driven.AnalysisStore
	contents    driven.ContentStore
	close       func()
}

// sqlStore is implemented by the sqlite and postgres stores.
type sqlStore interface {
	VerdictStore() driven.VerdictStore
	ExtractionStore() driven.ExtractionStore
	AnalysisStore() driven.AnalysisStore
	ContentStore() driven.ContentStore
	Close() error
}

func fromSQL(s sqlStore) storeSet {
	return storeSet{
		verdicts:    s.VerdictStore(),
		extractions: s.ExtractionStore(),
		analyses:    s.AnalysisStore(),
		contents:    s.ContentStore(),
		close: func() {
			if err := s.Close(); err != nil {
				logger.Warn("close store: %v", err)
			}
		},
	}
}

// bootstrap builds every service from the config file at path.
func bootstrap(ctx context.Context, path string) (*cli.Services, error) {
	cfg, err := file.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	reg, err := patterns.ForSpecs(cfg.Fields)
	if err != nil {
		return nil, err
	}
	synonyms, err := results.NewSynonyms(cfg.Synonyms)
	if err != nil {
		return nil, err
	}
	validator, err := results.NewValidator(cfg.Extractor.MaxValueLength)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	aiServices := ai.Init(&cfg, false)
	for _, w := range aiServices.Warnings {
		logger.Warn("%s", w)
	}

	prompts, err := file.NewPromptStore("", map[string]string{
		driven.PromptFieldExtraction: llm.DefaultSystemPrompt,
	})
	if err != nil {
		logger.Warn("prompt store unavailable, using built-in prompt: %v", err)
	}

	deps := strategies.Deps{
		Patterns:   reg,
		ScanWindow: cfg.Extractor.ScanWindow,
		NER:        aiServices.NER,
		LLM:        aiServices.LLMServices,
		Limiter:    strategies.NewLimiter(cfg.LLMRequestsPerSecond),
	}
	if prompts != nil {
		deps.Prompts = prompts
	}

	opts := []services.ExtractionOption{services.WithValidator(validator)}
	if aiServices.NER != nil {
		opts = append(opts, services.WithEntityAnalyzer(nerstrategy.New(aiServices.NER)))
	}
	if cfg.Extractor.Mode == domain.ModeSelect {
		built, err := strategies.DefaultRegistry().BuildAll(cfg.Extractor.Strategies, deps)
		if err != nil {
			store.close()
			aiServices.Close()
			return nil, err
		}
		opts = append(opts, services.WithSelector(strategies.NewSelector(synonyms, built...)))
	}

	extraction := services.NewExtractionService(
		cfg.Extractor,
		regex.New(reg, cfg.Extractor.ScanWindow),
		results.NewNormalizer(reg, synonyms, cfg.Extractor.MaxValueLength),
		opts...,
	)

	source, err := openSource(ctx, cfg.Source)
	if err != nil {
		// Explicit files can still be ingested.
		logger.Warn("document source unavailable: %v", err)
	}

	ingest := services.NewIngestService(
		source,
		normalisers.NewDefaultRegistry(),
		extraction,
		store.verdicts, store.extractions, store.analyses,
		cfg.Extractor.Workers,
		services.WithContentStore(store.contents),
	)
	resultService := services.NewResultService(
		store.verdicts, store.extractions, store.analyses,
		cfg.Extractor.ConfidenceThreshold,
		jsonl.New(), xlsx.New(),
	)

	return &cli.Services{
		Config:     cfg,
		ConfigPath: path,
		Patterns:   reg,
		Extraction: extraction,
		Ingest:     ingest,
		Results:    resultService,
		Validator:  ai.NewConfigValidator(),
		NewWatcher: func(dir string) (cli.Watcher, error) {
			return local.New(dir), nil
		},
		Close: func() {
			aiServices.Close()
			store.close()
		},
	}, nil
}

func openStore(ctx context.Context, settings domain.StorageSettings) (storeSet, error) {
	switch settings.Driver {
	case domain.StorageMemory:
		m := memory.NewStore()
		return storeSet{verdicts: m, extractions: m, analyses: m, contents: m, close: func() {}}, nil
	case domain.StoragePostgres:
		s, err := postgres.NewStore(ctx, settings.DSN)
		if err != nil {
			return storeSet{}, fmt.Errorf("open postgres store: %w", err)
		}
		return fromSQL(s), nil
	case domain.StorageSQLite, "":
		s, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return storeSet{}, fmt.Errorf("open sqlite store: %w", err)
		}
		return fromSQL(s), nil
	default:
		return storeSet{}, fmt.Errorf("%w: storage driver %q", domain.ErrInvalidInput, settings.Driver)
	}
}

// openSource returns nil with an error when the source cannot be opened.
func openSource(ctx context.Context, settings domain.SourceSettings) (driven.DocumentSource, error) {
	switch settings.Kind {
	case domain.SourceS3:
		s, err := s3.New(ctx, settings)
		if err != nil {
			return nil, err
		}
		return s, nil
	case domain.SourceLocal, "":
		return local.New(settings.Path), nil
	default:
		return nil, fmt.Errorf("%w: source kind %q", domain.ErrInvalidInput, settings.Kind)
	}
}
