// Package openai provides an image provider backed by the OpenAI Images API using the
// official SDK. It implements the domain.Provider interface and maps SDK failures onto
// retryable and terminal provider errors.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/observability"
)

const providerName = "openai"

// Provider implements the domain.Provider interface for OpenAI image generation.
type Provider struct {
	client openai.Client
	name   string
	model  string
	size   string
}

// NewProvider creates a new OpenAI image provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if config.ImageModel == "" {
		config.ImageModel = "dall-e-3"
	}
	if config.ImageSize == "" {
		config.ImageSize = "1024x1024"
	}
	if !buildSet(SupportedModels())[config.ImageModel] {
		return nil, fmt.Errorf("image model %s is not supported", config.ImageModel)
	}
	if !buildSet(SupportedSizes())[config.ImageSize] {
		return nil, fmt.Errorf("image size %s is not supported", config.ImageSize)
	}

	return &Provider{
		client: openai.NewClient(ClientOptions(config)...),
		name:   providerName,
		model:  config.ImageModel,
		size:   config.ImageSize,
	}, nil
}

// ClientOptions converts config into SDK request options.
func ClientOptions(config Config) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	return opts
}

// Generate requests a single image for the enriched prompt.
func (p *Provider) Generate(ctx context.Context, req *domain.ProviderRequest) (*domain.ProviderResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI images API",
		observability.String("model", p.model),
		observability.String("size", p.size))

	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         req.Parameters.EnrichPrompt(req.Prompt),
		Model:          openai.ImageModel(p.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(p.size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		logger.Warn("OpenAI images API call failed", observability.Error(err))
		return nil, p.classify(err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, &domain.ProviderError{
			Provider:  p.name,
			Retryable: true,
			Err:       errors.New("response contained no image"),
		}
	}

	return &domain.ProviderResponse{
		OutputRef:     resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// classify maps SDK errors onto provider errors. Transport failures are retryable.
func (p *Provider) classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return domain.NewStatusError(p.name, apiErr.StatusCode, err)
	}

	return &domain.ProviderError{Provider: p.name, Retryable: true, Err: err}
}
