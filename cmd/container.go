package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/atelier/internal/cache/memory"
	cacheredis "github.com/davidbz/atelier/internal/cache/redis"
	"github.com/davidbz/atelier/internal/config"
	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/history/sqlite"
	"github.com/davidbz/atelier/internal/httpserver"
	"github.com/davidbz/atelier/internal/httpserver/middleware"
	"github.com/davidbz/atelier/internal/observability"
	"github.com/davidbz/atelier/internal/provider/bria"
	"github.com/davidbz/atelier/internal/provider/mock"
	"github.com/davidbz/atelier/internal/provider/openai"
	"github.com/davidbz/atelier/internal/provider/registry"
	suggest "github.com/davidbz/atelier/internal/suggest/openai"
)

// ErrProviderNotConfigured indicates that the selected provider has no credentials.
var ErrProviderNotConfigured = errors.New("provider not configured")

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	constructors := []struct {
		name string
		fn   interface{}
	}{
		// Configuration
		{"config", config.Load},
		{"config dependencies", config.ParseDependenciesConfig},

		// Observability
		{"logger", newLogger},
		{"event bus", func(logger *zap.Logger) domain.EventPublisher {
			return observability.NewEventBus(logger)
		}},

		// Storage
		{"result cache", newResultCache},
		{"history store", newHistoryStore},
		{"history store interface", func(store *sqlite.Store) domain.HistoryStore { return store }},

		// Providers
		{"provider registry", newProviderRegistry},
		{"parameter suggester", newSuggester},

		// Domain Services
		{"quality scorer", newQualityScorer},
		{"generation service", newGenerationService},
		{"batch coordinator", newBatchCoordinator},
		{"stats service", func(history domain.HistoryStore) *domain.StatsService {
			return domain.NewStatsService(history, nil)
		}},

		// HTTP Layer
		{"middleware chain", middleware.BuildMiddlewareChain},
		{"HTTP handler", httpserver.NewHandler},
		{"HTTP server", httpserver.NewServer},
	}

	for _, c := range constructors {
		if err := container.Provide(c.fn); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", c.name, err)
		}
	}

	return container, nil
}

func newLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	return observability.InitLogger(cfg.Level)
}

func newResultCache(cfg *config.CacheConfig, _ *zap.Logger) (domain.ResultCache, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		client, err := cacheredis.NewClient(context.Background(), cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return cacheredis.New(client, cfg.RedisPrefix, cfg.TTL, nil)
	default:
		return memory.New(cfg.TTL, nil)
	}
}

func newHistoryStore(cfg *config.HistoryConfig, _ *zap.Logger) (*sqlite.Store, error) {
	return sqlite.Open(context.Background(), cfg.Path)
}

func newProviderRegistry(
	selected *config.ProviderConfig,
	mockCfg *mock.Config,
	openaiCfg *openai.Config,
	briaCfg *bria.Config,
	_ *zap.Logger,
) (domain.ProviderRegistry, error) {
	ctx := context.Background()
	reg := registry.NewRegistry()

	mockProvider, err := mock.NewProvider(*mockCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mock provider: %w", err)
	}
	if err := reg.Register(ctx, mockProvider); err != nil {
		return nil, fmt.Errorf("failed to register mock provider: %w", err)
	}

	// Remote providers are registered only when they have credentials.
	if openaiCfg.APIKey != "" {
		openaiProvider, err := openai.NewProvider(*openaiCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI provider: %w", err)
		}
		if err := reg.Register(ctx, openaiProvider); err != nil {
			return nil, fmt.Errorf("failed to register OpenAI provider: %w", err)
		}
	}
	if briaCfg.APIKey != "" {
		briaProvider, err := bria.NewProvider(*briaCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create Bria provider: %w", err)
		}
		if err := reg.Register(ctx, briaProvider); err != nil {
			return nil, fmt.Errorf("failed to register Bria provider: %w", err)
		}
	}

	if _, err := reg.Get(ctx, selected.Name); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, selected.Name)
	}

	names, _ := reg.List(ctx)
	observability.FromContext(ctx).Info("image providers registered",
		observability.Any("providers", names),
		observability.String("selected", selected.Name))

	return reg, nil
}

// newSuggester returns nil without an API key; AI mode then uses the static defaults.
func newSuggester(cfg *suggest.Config) (domain.ParameterSuggester, error) {
	if cfg.APIKey == "" {
		return nil, nil //nolint:nilnil // Suggestion is optional.
	}

	suggester, err := suggest.NewSuggester(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create parameter suggester: %w", err)
	}
	return suggester, nil
}

func newQualityScorer(cfg *config.Config) (*domain.QualityScorer, error) {
	policy, err := config.LoadScoringPolicy(cfg.Scoring.PolicyFile)
	if err != nil {
		return nil, err
	}
	return domain.NewQualityScorer(policy), nil
}

func newGenerationService(
	reg domain.ProviderRegistry,
	cache domain.ResultCache,
	history domain.HistoryStore,
	suggester domain.ParameterSuggester,
	scorer *domain.QualityScorer,
	events domain.EventPublisher,
	selected *config.ProviderConfig,
	orchestrator *config.OrchestratorConfig,
) *domain.GenerationService {
	return domain.NewGenerationService(reg, cache, history, suggester, scorer, events, domain.GenerationOptions{
		ProviderName:        selected.Name,
		RetryPolicy:         orchestrator.RetryPolicy(),
		ProviderConcurrency: orchestrator.ProviderMaxConcurrency,
		Timeout:             orchestrator.GenerationTimeout,
	})
}

func newBatchCoordinator(
	generations *domain.GenerationService,
	events domain.EventPublisher,
	orchestrator *config.OrchestratorConfig,
) *domain.BatchCoordinator {
	return domain.NewBatchCoordinator(generations, events, orchestrator.MaxBatchSize, orchestrator.BatchMaxConcurrency)
}
