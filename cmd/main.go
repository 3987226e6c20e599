package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/quill/internal/breaker"
	"github.com/davidbz/quill/internal/cache/memory"
	"github.com/davidbz/quill/internal/cache/redis"
	"github.com/davidbz/quill/internal/cache/sqlstore"
	"github.com/davidbz/quill/internal/config"
	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
	openaiembed "github.com/davidbz/quill/internal/embedding/openai"
	"github.com/davidbz/quill/internal/fingerprint"
	"github.com/davidbz/quill/internal/httpserver"
	"github.com/davidbz/quill/internal/httpserver/middleware"
	"github.com/davidbz/quill/internal/judge"
	"github.com/davidbz/quill/internal/observability"
	"github.com/davidbz/quill/internal/pipeline"
	"github.com/davidbz/quill/internal/provider/echo"
	"github.com/davidbz/quill/internal/provider/gemini"
	"github.com/davidbz/quill/internal/provider/openai"
	"github.com/davidbz/quill/internal/provider/registry"
	"github.com/davidbz/quill/internal/routing"
)

const shutdownTimeout = 30 * time.Second

func main() {
	container := buildContainer()

	err := container.Invoke(func(
		server *httpserver.Server,
		references *corpus.ReferenceSet,
		store *sqlstore.Store,
		logger *zap.Logger,
	) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		defer func() { _ = logger.Sync() }()

		if store != nil {
			defer func() { _ = store.Close() }()
			purged, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("failed to purge expired cache entries", zap.Error(err))
			} else {
				logger.Info("purged expired cache entries", zap.Int64("count", purged))
			}
		}

		if err := references.Warm(ctx); err != nil {
			return fmt.Errorf("failed to warm reference set: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err != nil {
		log.Fatalf("Failed to run application: %v", err)
	}
}

type component struct {
	name        string
	constructor interface{}
}

func buildContainer() *dig.Container {
	container := dig.New()

	components := []component{
		// Configuration
		{"config", config.Load},
		{"config dependencies", config.ParseDependenciesConfig},

		// Observability
		{"logger", observability.InitLogger},
		{"event bus", provideEventBus},

		// Providers
		{"registry", func() domain.ProviderRegistry { return registry.NewRegistry() }},
		{"OpenAI provider", provideOpenAI},
		{"OpenAI embedding generator", provideOpenAIEmbedding},
		{"Gemini provider", provideGemini},
		{"echo provider", provideEcho},
		{"cost calculator", provideCostCalculator},
		{"router", func(reg domain.ProviderRegistry, cfg *routing.Config) domain.Router {
			return routing.NewRouter(reg, cfg)
		}},

		// Resilience
		{"redis client", provideRedisClient},
		{"circuit breaker", provideBreaker},

		// Gateway
		{"gateway service", domain.NewGatewayService},
		{"completer", func(g *domain.GatewayService) domain.Completer { return g }},
		{"embedding service", provideEmbeddingService},

		// Cache tiers
		{"fingerprint engine", func(cfg *domain.TieredCacheConfig) domain.Fingerprinter {
			return fingerprint.NewEngine(cfg.NormalizerVersion)
		}},
		{"local tier", func(cfg *domain.TieredCacheConfig) (domain.LocalTier, error) {
			return memory.NewTier(cfg.LocalSize)
		}},
		{"sql store", provideStore},
		{"persistent tier", providePersistentTier},
		{"vector index", provideVectorIndex},
		{"tiered cache", provideTieredCache},

		// Corpus and judges
		{"style", func(cfg *corpus.Config) (*corpus.Style, error) { return corpus.Load(cfg.StylePath) }},
		{"rules", func(cfg *corpus.Config, style *corpus.Style) corpus.Rules { return corpus.NewRules(*cfg, style) }},
		{"reference set", provideReferenceSet},
		{"gated judge", judge.NewGatedJudge},
		{"contract judge", func(c domain.Completer, style *corpus.Style, cfg *judge.Config) (*judge.ContractJudge, error) {
			return judge.NewContractJudge(c, style.PillarNames(), cfg)
		}},
		{"pipeline", provideMachine},

		// HTTP Layer
		{"middleware", middleware.BuildMiddlewareChain},
		{"HTTP handler", httpserver.NewHandler},
		{"HTTP server", httpserver.NewServer},
	}

	for _, c := range components {
		if err := container.Provide(c.constructor); err != nil {
			log.Fatalf("Failed to provide %s: %v", c.name, err)
		}
	}

	// Register providers with registry (invoked for side effects)
	if err := container.Invoke(registerProviders); err != nil {
		log.Fatalf("Failed to register providers: %v", err)
	}

	return container
}

func provideEventBus(logger *zap.Logger) domain.EventPublisher {
	return observability.NewEventBus(logger)
}

// Providers without credentials resolve to nil and are skipped at registration.

func provideOpenAI(cfg *openai.Config) (*openai.Provider, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	return openai.NewProvider(*cfg)
}

func provideOpenAIEmbedding(cfg *openaiembed.Config) (*openaiembed.Generator, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	return openaiembed.NewGenerator(*cfg)
}

func provideGemini(cfg *gemini.Config) (*gemini.Provider, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	return gemini.NewProvider(context.Background(), *cfg)
}

func provideEcho(cfg *echo.Config) *echo.Provider {
	if !cfg.Enabled {
		return nil
	}
	return echo.NewProvider(*cfg)
}

func registerProviders(
	reg domain.ProviderRegistry,
	openaiProvider *openai.Provider,
	geminiProvider *gemini.Provider,
	echoProvider *echo.Provider,
) error {
	ctx := context.Background()

	var providers []domain.Provider
	if openaiProvider != nil {
		providers = append(providers, openaiProvider)
	}
	if geminiProvider != nil {
		providers = append(providers, geminiProvider)
	}
	if echoProvider != nil {
		providers = append(providers, echoProvider)
	}
	if len(providers) == 0 {
		return errors.New("no providers configured")
	}

	for _, p := range providers {
		if err := reg.Register(ctx, p); err != nil {
			return fmt.Errorf("failed to register %s provider: %w", p.Name(), err)
		}
	}
	return nil
}

func provideCostCalculator() (domain.CostCalculator, error) {
	ctx := context.Background()
	pricing := domain.NewInMemoryPricingRegistry()

	for _, register := range []func(context.Context, domain.PricingRegistry) error{
		openai.RegisterPricing,
		gemini.RegisterPricing,
		echo.RegisterPricing,
	} {
		if err := register(ctx, pricing); err != nil {
			return nil, err
		}
	}

	return domain.NewStandardCostCalculator(pricing), nil
}

func provideRedisClient(cfg *redis.Config) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	return redis.NewClient(context.Background(), *cfg)
}

func provideBreaker(cfg *breaker.Config, client *goredis.Client) domain.CircuitBreaker {
	if cfg.Shared && client != nil {
		return breaker.New(*cfg, breaker.WithSharedState(redis.NewBreakerState(client)))
	}
	return breaker.New(*cfg)
}

func provideEmbeddingService(
	openaiGenerator *openaiembed.Generator,
	geminiProvider *gemini.Provider,
	echoProvider *echo.Provider,
	cb domain.CircuitBreaker,
	cacheCfg *domain.TieredCacheConfig,
	gatewayCfg *domain.GatewayConfig,
) domain.Embedder {
	var providers []domain.EmbeddingProvider
	if openaiGenerator != nil {
		providers = append(providers, openaiGenerator)
	}
	if geminiProvider != nil {
		providers = append(providers, geminiProvider)
	}
	if echoProvider != nil {
		providers = append(providers, echoProvider)
	}

	return domain.NewEmbeddingService(providers, cb, cacheCfg.ExpectedDimension, gatewayCfg.CallTimeout)
}

func provideStore(cfg *sqlstore.Config) (*sqlstore.Store, error) {
	if cfg.Driver == "none" || cfg.DSN == "" {
		return nil, nil
	}
	return sqlstore.Open(context.Background(), *cfg)
}

// Disabled tiers must reach the cache as untyped nil interfaces.

func providePersistentTier(store *sqlstore.Store) domain.PersistentStore {
	if store == nil {
		return nil
	}
	return store
}

func provideVectorIndex(
	client *goredis.Client,
	redisCfg *redis.Config,
	cacheCfg *domain.TieredCacheConfig,
) (domain.VectorIndex, error) {
	if client == nil {
		return nil, nil
	}
	index, err := redis.NewVectorIndex(context.Background(), client, redisCfg.IndexName, cacheCfg.ExpectedDimension)
	if err != nil {
		return nil, err
	}
	return index, nil
}

func provideTieredCache(
	fingerprints domain.Fingerprinter,
	local domain.LocalTier,
	store domain.PersistentStore,
	index domain.VectorIndex,
	embedder domain.Embedder,
	cfg *domain.TieredCacheConfig,
) domain.EmbeddingCache {
	return domain.NewTieredCache(fingerprints, local, store, index, embedder, *cfg)
}

func provideReferenceSet(
	style *corpus.Style,
	cache domain.EmbeddingCache,
	index domain.VectorIndex,
	fingerprints domain.Fingerprinter,
	cfg *corpus.Config,
) *corpus.ReferenceSet {
	return corpus.NewReferenceSet(style, cache, index, fingerprints, *cfg)
}

func provideMachine(
	completer domain.Completer,
	gated *judge.GatedJudge,
	contract *judge.ContractJudge,
	references *corpus.ReferenceSet,
	rules corpus.Rules,
	style *corpus.Style,
	events domain.EventPublisher,
	cfg *pipeline.Config,
) (domain.PipelineRunner, error) {
	return pipeline.NewMachine(completer, gated, contract, references, rules, style, events, cfg)
}
