// Package mock provides an image provider that never leaves the process. It fabricates
// output references and can inject latency and failures for local runs and tests.
package mock

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/observability"
)

const providerName = "mock"

// Config contains mock provider settings.
type Config struct {
	Latency     time.Duration `env:"MOCK_LATENCY"      envDefault:"1s"`
	FailureRate float64       `env:"MOCK_FAILURE_RATE" envDefault:"0"`
	BaseURL     string        `env:"MOCK_BASE_URL"     envDefault:"https://placeholder.atelier.local/images/"`
}

// Provider implements the domain.Provider interface without external calls.
type Provider struct {
	config Config

	mu  sync.Mutex
	rng *rand.Rand
}

// NewProvider creates a new mock provider.
func NewProvider(config Config) (*Provider, error) {
	if config.FailureRate < 0 || config.FailureRate > 1 {
		return nil, errors.New("failure rate must be between 0 and 1")
	}
	if config.Latency < 0 {
		return nil, errors.New("latency cannot be negative")
	}

	return &Provider{
		config: config,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), //nolint:gosec // Not security sensitive.
	}, nil
}

// Generate waits for the configured latency and returns a fabricated image reference.
func (p *Provider) Generate(ctx context.Context, req *domain.ProviderRequest) (*domain.ProviderResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("mock generating image",
		observability.String("prompt", req.Parameters.EnrichPrompt(req.Prompt)))

	if p.config.Latency > 0 {
		timer := time.NewTimer(p.config.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if p.shouldFail() {
		return nil, domain.NewStatusError(providerName, http.StatusServiceUnavailable,
			errors.New("injected failure"))
	}

	return &domain.ProviderResponse{
		OutputRef: p.config.BaseURL + uuid.NewString() + ".png",
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) shouldFail() bool {
	if p.config.FailureRate <= 0 {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < p.config.FailureRate
}
