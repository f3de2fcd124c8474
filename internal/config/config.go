package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"
	"gopkg.in/yaml.v3"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/provider/bria"
	"github.com/davidbz/atelier/internal/provider/mock"
	"github.com/davidbz/atelier/internal/provider/openai"
	suggest "github.com/davidbz/atelier/internal/suggest/openai"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config represents the orchestrator configuration.
type Config struct {
	Log          LogConfig
	Server       ServerConfig
	CORS         CORSConfig
	RateLimit    RateLimitConfig
	Cache        CacheConfig
	Orchestrator OrchestratorConfig
	Scoring      ScoringConfig
	History      HistoryConfig
	Provider     ProviderConfig
	OpenAI       openai.Config
	Suggest      suggest.Config
	Bria         bria.Config
	Mock         mock.Config
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// ServerConfig contains HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port            int `env:"SERVER_PORT"             envDefault:"8080"`
	ReadTimeout     int `env:"SERVER_READ_TIMEOUT"     envDefault:"30"`
	WriteTimeout    int `env:"SERVER_WRITE_TIMEOUT"    envDefault:"300"`
	ShutdownTimeout int `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// RateLimitConfig contains the per-client request limit.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED"    envDefault:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend     string        `env:"CACHE_BACKEND" envDefault:"memory"`
	TTL         time.Duration `env:"CACHE_TTL"     envDefault:"1h"`
	RedisURL    string        `env:"REDIS_URL"     envDefault:"redis://localhost:6379/0"`
	RedisPrefix string        `env:"REDIS_PREFIX"  envDefault:"atelier:"`
}

// OrchestratorConfig contains retry and concurrency settings.
type OrchestratorConfig struct {
	BackoffBase            time.Duration `env:"RETRY_BACKOFF_BASE"       envDefault:"1s"`
	BackoffMax             time.Duration `env:"RETRY_BACKOFF_MAX"        envDefault:"30s"`
	ProviderMaxConcurrency int64         `env:"PROVIDER_MAX_CONCURRENCY" envDefault:"8"`
	BatchMaxConcurrency    int64         `env:"BATCH_MAX_CONCURRENCY"    envDefault:"4"`
	MaxBatchSize           int           `env:"MAX_BATCH_SIZE"           envDefault:"50"`

	// GenerationTimeout bounds one generation including retries. Zero disables it.
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"0s"`
}

// ScoringConfig points at an optional YAML file overriding the quality weights.
type ScoringConfig struct {
	PolicyFile string `env:"SCORING_POLICY_FILE"`
}

// HistoryConfig contains the history database location.
type HistoryConfig struct {
	Path string `env:"HISTORY_DB_PATH" envDefault:"data/atelier.db"`
}

// ProviderConfig selects the image provider.
type ProviderConfig struct {
	Name string `env:"IMAGE_PROVIDER" envDefault:"mock"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*LogConfig
	*ServerConfig
	*CORSConfig
	*RateLimitConfig
	*CacheConfig
	*OrchestratorConfig
	*HistoryConfig
	*ProviderConfig

	OpenAI  *openai.Config
	Suggest *suggest.Config
	Bria    *bria.Config
	Mock    *mock.Config
}

// Load loads environment files and parses configuration.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the orchestrator cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache TTL must be positive"))
	}

	switch c.Provider.Name {
	case "mock", "openai", "bria":
	default:
		errs = append(errs, fmt.Errorf("unknown image provider %q", c.Provider.Name))
	}

	if c.Orchestrator.ProviderMaxConcurrency < 1 {
		errs = append(errs, errors.New("provider max concurrency must be at least 1"))
	}
	if c.Orchestrator.BatchMaxConcurrency < 1 {
		errs = append(errs, errors.New("batch max concurrency must be at least 1"))
	}
	if c.Orchestrator.MaxBatchSize < 1 {
		errs = append(errs, errors.New("max batch size must be at least 1"))
	}
	if c.Orchestrator.GenerationTimeout < 0 {
		errs = append(errs, errors.New("generation timeout cannot be negative"))
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute < 1 {
		errs = append(errs, errors.New("rate limit must allow at least one request per minute"))
	}

	return errors.Join(errs...)
}

// RetryPolicy builds the backoff policy from the orchestrator settings.
func (c *OrchestratorConfig) RetryPolicy() domain.RetryPolicy {
	return domain.RetryPolicy{
		BaseDelay: c.BackoffBase,
		MaxDelay:  c.BackoffMax,
	}
}

// LoadScoringPolicy returns the default weights overlaid with the YAML file at path.
// An empty path returns the defaults.
func LoadScoringPolicy(path string) (domain.ScoringPolicy, error) {
	policy := domain.DefaultScoringPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read scoring policy: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse scoring policy: %w", err)
	}

	if policy.Base < 0 || policy.PerParameter < 0 || policy.ParameterCap < 0 || policy.OutputBonus < 0 {
		return policy, errors.New("scoring weights cannot be negative")
	}
	return policy, nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:                dig.Out{},
		LogConfig:          &cfg.Log,
		ServerConfig:       &cfg.Server,
		CORSConfig:         &cfg.CORS,
		RateLimitConfig:    &cfg.RateLimit,
		CacheConfig:        &cfg.Cache,
		OrchestratorConfig: &cfg.Orchestrator,
		HistoryConfig:      &cfg.History,
		ProviderConfig:     &cfg.Provider,
		OpenAI:             &cfg.OpenAI,
		Suggest:            &cfg.Suggest,
		Bria:               &cfg.Bria,
		Mock:               &cfg.Mock,
	}
}
