package domain

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// ProviderRequest is what an image provider receives for one attempt.
type ProviderRequest struct {
	Prompt     string
	Parameters Parameters
}

// ProviderResponse is a provider's description of a generated image.
type ProviderResponse struct {
	OutputRef     string
	RevisedPrompt string
}

// Provider represents any image generation backend.
type Provider interface {
	// Generate produces one image for the request.
	Generate(ctx context.Context, req *ProviderRequest) (*ProviderResponse, error)

	// Name returns the provider identifier.
	Name() string
}

// ProviderRegistry manages available providers.
type ProviderRegistry interface {
	// Register adds a provider to the registry.
	Register(ctx context.Context, provider Provider) error

	// Get retrieves a provider by name.
	Get(ctx context.Context, providerName string) (Provider, error)

	// List returns all available providers.
	List(ctx context.Context) ([]string, error)
}

// Suggestion is a set of parameters proposed for a prompt.
type Suggestion struct {
	Parameters Parameters
	Reasoning  string
}

// ParameterSuggester proposes generation parameters for a prompt in AI mode.
type ParameterSuggester interface {
	Suggest(ctx context.Context, prompt string) (*Suggestion, error)
}

// ResultCache stores generation results by fingerprint for a fixed TTL.
type ResultCache interface {
	// Get returns the entry for fp if it exists and has not expired.
	Get(ctx context.Context, fp Fingerprint) (fn.Option[CachedResult], error)

	// Put stores result under fp, replacing any prior entry.
	Put(ctx context.Context, fp Fingerprint, result *GenerationResult) error

	// Clear evicts every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Stats returns hit/miss counters and entry counts.
	Stats(ctx context.Context) (*CacheStats, error)
}

// HistoryFilter narrows a history query.
type HistoryFilter struct {
	UserID    int64
	ProjectID fn.Option[int64]
	Status    fn.Option[Status]
	Since     fn.Option[time.Time]

	// Limit of 0 returns every matching record.
	Limit  int
	Offset int
}

// HistoryStore persists generation records.
type HistoryStore interface {
	// Append inserts a record.
	Append(ctx context.Context, rec *HistoryRecord) error

	// Get returns the record with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*HistoryRecord, error)

	// Query returns matching records, most recent first.
	Query(ctx context.Context, filter HistoryFilter) (*HistoryPage, error)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// Clock returns the current time. Tests swap it for a fake.
type Clock func() time.Time
