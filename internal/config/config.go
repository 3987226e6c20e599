package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/quill/internal/breaker"
	"github.com/davidbz/quill/internal/cache/redis"
	"github.com/davidbz/quill/internal/cache/sqlstore"
	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
	openaiembed "github.com/davidbz/quill/internal/embedding/openai"
	"github.com/davidbz/quill/internal/judge"
	"github.com/davidbz/quill/internal/pipeline"
	"github.com/davidbz/quill/internal/provider/echo"
	"github.com/davidbz/quill/internal/provider/gemini"
	"github.com/davidbz/quill/internal/provider/openai"
	"github.com/davidbz/quill/internal/routing"
)

// Config represents the service configuration.
type Config struct {
	Server          ServerConfig
	CORS            CORSConfig
	OpenAI          openai.Config
	OpenAIEmbedding openaiembed.Config
	Gemini          gemini.Config
	Echo            echo.Config
	Routing         routing.Config
	Gateway         domain.GatewayConfig
	Breaker         breaker.Config
	Cache           domain.TieredCacheConfig
	Store           sqlstore.Config
	Redis           redis.Config
	Corpus          corpus.Config
	Judge           judge.Config
	Pipeline        pipeline.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"180"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	OpenAI          *openai.Config
	OpenAIEmbedding *openaiembed.Config
	Gemini          *gemini.Config
	Echo            *echo.Config
	Routing         *routing.Config
	Gateway         *domain.GatewayConfig
	Breaker         *breaker.Config
	Cache           *domain.TieredCacheConfig
	Store           *sqlstore.Config
	Redis           *redis.Config
	Corpus          *corpus.Config
	Judge           *judge.Config
	Pipeline        *pipeline.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:             dig.Out{},
		ServerConfig:    &cfg.Server,
		CORSConfig:      &cfg.CORS,
		OpenAI:          &cfg.OpenAI,
		OpenAIEmbedding: &cfg.OpenAIEmbedding,
		Gemini:          &cfg.Gemini,
		Echo:            &cfg.Echo,
		Routing:         &cfg.Routing,
		Gateway:         &cfg.Gateway,
		Breaker:         &cfg.Breaker,
		Cache:           &cfg.Cache,
		Store:           &cfg.Store,
		Redis:           &cfg.Redis,
		Corpus:          &cfg.Corpus,
		Judge:           &cfg.Judge,
		Pipeline:        &cfg.Pipeline,
	}
}
