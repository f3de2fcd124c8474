package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/davidbz/atelier/internal/observability"
)

const fallbackReasoning = "Using optimized defaults (AI unavailable)"

// GenerationOptions tunes a GenerationService.
type GenerationOptions struct {
	// ProviderName selects the provider from the registry.
	ProviderName string

	RetryPolicy RetryPolicy

	// ProviderConcurrency bounds in-flight provider calls across all requests.
	ProviderConcurrency int64

	// Timeout is a hard deadline for one generation. Zero disables it.
	Timeout time.Duration

	Clock Clock
	NewID func() string
}

// GenerationService runs a single request through fingerprinting, the cache, the retry
// executor and the quality scorer.
type GenerationService struct {
	registry  ProviderRegistry
	cache     ResultCache
	history   HistoryStore
	suggester ParameterSuggester
	scorer    *QualityScorer
	events    EventPublisher

	providerName string
	policy       RetryPolicy
	timeout      time.Duration
	providerSem  *semaphore.Weighted
	flights      singleflight.Group
	clock        Clock
	newID        func() string
}

// NewGenerationService creates a new generation service (DI constructor). cache, history,
// suggester and events may be nil.
func NewGenerationService(
	registry ProviderRegistry,
	cache ResultCache,
	history HistoryStore,
	suggester ParameterSuggester,
	scorer *QualityScorer,
	events EventPublisher,
	opts GenerationOptions,
) *GenerationService {
	if scorer == nil {
		scorer = NewQualityScorer(DefaultScoringPolicy())
	}
	if opts.ProviderConcurrency <= 0 {
		opts.ProviderConcurrency = 1
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &GenerationService{
		registry:     registry,
		cache:        cache,
		history:      history,
		suggester:    suggester,
		scorer:       scorer,
		events:       events,
		providerName: opts.ProviderName,
		policy:       opts.RetryPolicy,
		timeout:      opts.Timeout,
		providerSem:  semaphore.NewWeighted(opts.ProviderConcurrency),
		clock:        opts.Clock,
		newID:        opts.NewID,
	}
}

// Generate handles one generation request. A cache hit short-circuits the provider.
// Concurrent requests with the same fingerprint share a single provider call.
func (s *GenerationService) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	norm, err := Validate(req)
	if err != nil {
		return nil, err
	}

	fp := NewFingerprint(norm)
	ctx = observability.WithFingerprint(ctx, fp.Short())
	ctx = observability.WithUserID(ctx, norm.UserID)
	logger := observability.FromContext(ctx)

	if !norm.CacheEnabled() || s.cache == nil {
		logger.Debug("cache bypassed")
		return s.run(ctx, norm, fp, s.resolveParameters)
	}

	// The lookup happens inside the flight so each coalesced request counts once.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.flights.DoChan(string(fp), func() (interface{}, error) {
		if cached := s.lookup(flightCtx, fp); cached != nil {
			logger.Info("cache HIT - returning cached result")
			return cached, nil
		}
		logger.Info("cache MISS - calling provider")
		return s.run(flightCtx, norm, fp, s.resolveParameters)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for generation: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		result, _ := res.Val.(*GenerationResult)
		if res.Shared {
			logger.Debug("joined in-flight generation")
		}
		return result.clone(), nil
	}
}

// ClearCache evicts every cached result and returns how many were removed.
func (s *GenerationService) ClearCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}

	cleared, err := s.cache.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}

	observability.FromContext(ctx).Info("cache cleared", observability.Int("cleared", cleared))
	s.publish(ctx, "cache.cleared", map[string]interface{}{"cleared": cleared})
	return cleared, nil
}

// CacheStats reports cache effectiveness. A disabled cache reports zeros.
func (s *GenerationService) CacheStats(ctx context.Context) (*CacheStats, error) {
	if s.cache == nil {
		return &CacheStats{}, nil
	}

	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return stats, nil
}

// lookup returns a cached copy flagged as cached, or nil. Cache failures degrade to a miss.
func (s *GenerationService) lookup(ctx context.Context, fp Fingerprint) *GenerationResult {
	entry, err := s.cache.Get(ctx, fp)
	if err != nil {
		observability.FromContext(ctx).Warn("cache get failed, continuing without cache",
			observability.Error(err))
		return nil
	}

	var hit *GenerationResult
	entry.WhenSome(func(c CachedResult) {
		hit = c.Result.clone()
		hit.Cached = true
	})
	return hit
}

// run executes the provider call with retries and records the outcome.
func (s *GenerationService) run(
	ctx context.Context,
	req *GenerationRequest,
	fp Fingerprint,
	resolve parameterResolver,
) (*GenerationResult, error) {
	logger := observability.FromContext(ctx)
	start := s.clock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	params, reasoning := resolve(ctx, req)
	record := &HistoryRecord{
		ID:          s.newID(),
		UserID:      req.UserID,
		ProjectID:   req.ProjectID,
		Prompt:      req.Prompt,
		Mode:        req.Mode,
		Status:      StatusProcessing,
		Parameters:  params,
		Fingerprint: fp.String(),
		CreatedAt:   start,
	}

	provider, err := s.registry.Get(ctx, s.providerName)
	if err != nil {
		err = fmt.Errorf("provider not found: %w", err)
		s.fail(ctx, record, err)
		return nil, err
	}

	response, retryCount, err := Retry(ctx, s.policy, req.RetryBudget(),
		func(ctx context.Context) (*ProviderResponse, error) {
			return s.callProvider(ctx, provider, &ProviderRequest{Prompt: req.Prompt, Parameters: params})
		})
	if err != nil {
		record.RetryCount = retryCount
		s.fail(ctx, record, err)
		return nil, err
	}

	end := s.clock()
	elapsed := end.Sub(start).Seconds()
	score := s.scorer.Score(params, response.OutputRef)

	result := &GenerationResult{
		ID:           record.ID,
		Status:       StatusCompleted,
		OutputRef:    response.OutputRef,
		Parameters:   params,
		QualityScore: score,
		ElapsedTime:  elapsed,
		RetryCount:   retryCount,
		Fingerprint:  fp.String(),
		Reasoning:    reasoning,
		CompletedAt:  end,
	}

	if req.CacheEnabled() && s.cache != nil {
		if putErr := s.cache.Put(ctx, fp, result); putErr != nil {
			logger.Warn("failed to store in cache", observability.Error(putErr))
		}
	}

	record.Status = StatusCompleted
	record.OutputRef = response.OutputRef
	record.QualityScore = &score
	record.GenerationTime = &elapsed
	record.RetryCount = retryCount
	record.CompletedAt = &end
	s.appendHistory(ctx, record)

	logger.Info("generation completed",
		observability.String("generation_id", result.ID),
		observability.Float64("elapsed_seconds", elapsed),
		observability.Float64("quality_score", score),
		observability.Int("retry_count", retryCount))
	s.publish(ctx, "generation.completed", map[string]interface{}{
		"generation_id": result.ID,
		"retry_count":   retryCount,
		"quality_score": score,
	})

	return result.clone(), nil
}

// callProvider holds a provider slot only for the duration of the call, not the backoff.
func (s *GenerationService) callProvider(
	ctx context.Context,
	provider Provider,
	req *ProviderRequest,
) (*ProviderResponse, error) {
	if err := s.providerSem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for provider slot: %w", err)
	}
	defer s.providerSem.Release(1)

	response, err := provider.Generate(ctx, req)
	if err != nil {
		observability.FromContext(ctx).Warn("provider attempt failed",
			observability.String("provider", provider.Name()),
			observability.Error(err))
		return nil, err
	}
	if response == nil {
		return nil, &ProviderError{Provider: provider.Name(), Retryable: true, Err: errors.New("empty response")}
	}
	return response, nil
}

// parameterResolver picks the parameters sent to the provider and the reasoning reported
// with the result.
type parameterResolver func(ctx context.Context, req *GenerationRequest) (Parameters, string)

// resolveParameters returns the parameters sent to the provider. In AI mode request
// values win and the suggester fills the rest.
func (s *GenerationService) resolveParameters(ctx context.Context, req *GenerationRequest) (Parameters, string) {
	if req.Mode != ModeAI {
		return req.Parameters, ""
	}

	if s.suggester == nil {
		return req.Parameters.Merge(DefaultParameters()), fallbackReasoning
	}

	suggestion, err := s.suggester.Suggest(ctx, req.Prompt)
	if err != nil || suggestion == nil {
		observability.FromContext(ctx).Warn("parameter suggestion failed, using defaults",
			observability.Error(err))
		return req.Parameters.Merge(DefaultParameters()), fallbackReasoning
	}

	return req.Parameters.Merge(suggestion.Parameters.Sanitize()), suggestion.Reasoning
}

func (s *GenerationService) fail(ctx context.Context, record *HistoryRecord, err error) {
	end := s.clock()
	record.Status = StatusFailed
	record.ErrorMessage = err.Error()
	record.CompletedAt = &end
	s.appendHistory(ctx, record)

	observability.FromContext(ctx).Error("generation failed",
		observability.String("generation_id", record.ID),
		observability.Int("retry_count", record.RetryCount),
		observability.Error(err))
	s.publish(ctx, "generation.failed", map[string]interface{}{
		"generation_id": record.ID,
		"retry_count":   record.RetryCount,
		"error":         err.Error(),
	})
}

func (s *GenerationService) appendHistory(ctx context.Context, record *HistoryRecord) {
	if s.history == nil {
		return
	}
	// History must be written even if the caller went away.
	if err := s.history.Append(context.WithoutCancel(ctx), record); err != nil {
		observability.FromContext(ctx).Warn("failed to append history", observability.Error(err))
	}
}

func (s *GenerationService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.events != nil {
		s.events.Publish(ctx, eventType, data)
	}
}

func (r *GenerationResult) clone() *GenerationResult {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
