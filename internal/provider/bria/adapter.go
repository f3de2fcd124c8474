// Package bria provides an image provider for the Bria FIBO V2 API. FIBO takes a single
// prompt, so generation parameters are folded into the prompt text.
package bria

import (
	"context"
	"errors"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/observability"
)

const providerName = "bria"

// Provider implements the domain.Provider interface for Bria FIBO.
type Provider struct {
	client       *Client
	modelVersion string
}

// NewProvider creates a new Bria provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("Bria API key is required")
	}
	if config.URL == "" {
		return nil, errors.New("Bria API URL is required")
	}

	return &Provider{
		client:       NewClient(config),
		modelVersion: config.ModelVersion,
	}, nil
}

// Generate requests one image synchronously.
func (p *Provider) Generate(ctx context.Context, req *domain.ProviderRequest) (*domain.ProviderResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	prompt := req.Parameters.EnrichPrompt(req.Prompt)
	logger := observability.FromContext(ctx)
	logger.Debug("calling Bria generate API", observability.Int("prompt_length", len(prompt)))

	imageURL, err := p.client.Generate(ctx, generateRequest{
		Prompt:       prompt,
		Sync:         true,
		ModelVersion: p.modelVersion,
	})
	if err != nil {
		logger.Warn("Bria generate API call failed", observability.Error(err))
		return nil, classify(err)
	}

	if imageURL == "" {
		return nil, &domain.ProviderError{
			Provider:  providerName,
			Retryable: true,
			Err:       errors.New("response contained no image url"),
		}
	}

	return &domain.ProviderResponse{OutputRef: imageURL}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return domain.NewStatusError(providerName, statusErr.StatusCode, err)
	}

	return &domain.ProviderError{Provider: providerName, Retryable: true, Err: err}
}
