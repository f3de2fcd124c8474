package domain_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/atelier/internal/domain"
)

// generatorFunc adapts a function to domain.Generator.
type generatorFunc func(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error)

func (f generatorFunc) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	return f(ctx, req)
}

// echoGenerator fails any request whose prompt contains "fail".
func echoGenerator(calls *atomic.Int32) domain.Generator {
	return generatorFunc(func(_ context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
		calls.Add(1)
		if strings.Contains(req.Prompt, "fail") {
			return nil, errors.New("provider exploded")
		}
		return &domain.GenerationResult{ID: req.Prompt, Status: domain.StatusCompleted}, nil
	})
}

func batchOf(prompts ...string) *domain.BatchRequest {
	reqs := make([]domain.GenerationRequest, len(prompts))
	for i, p := range prompts {
		reqs[i] = domain.GenerationRequest{Prompt: p}
	}
	return &domain.BatchRequest{Requests: reqs}
}

func boolPtr(v bool) *bool {
	return &v
}

func TestBatchCoordinator_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("should report partial failure positionally", func(t *testing.T) {
		var calls atomic.Int32
		coordinator := domain.NewBatchCoordinator(echoGenerator(&calls), nil, 0, 4)

		result, err := coordinator.Execute(ctx, batchOf("one", "two fail", "three"))
		require.NoError(t, err)
		require.Equal(t, 3, result.Total)
		require.Equal(t, 2, result.Successful)
		require.Equal(t, 1, result.Failed)
		require.Zero(t, result.Skipped)

		require.Equal(t, "one", result.Results[0].ID)
		require.Nil(t, result.Results[1])
		require.Equal(t, "three", result.Results[2].ID)

		require.Nil(t, result.Errors[0])
		require.NotNil(t, result.Errors[1])
		require.Equal(t, "generation 2 failed: provider exploded", *result.Errors[1])
		require.Equal(t, []domain.ItemStatus{domain.ItemSucceeded, domain.ItemFailed, domain.ItemSucceeded}, result.Statuses)
	})

	t.Run("should preserve order in parallel mode", func(t *testing.T) {
		gen := generatorFunc(func(_ context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
			// Earlier items finish last.
			time.Sleep(time.Duration(10-len(req.Prompt)) * time.Millisecond)
			return &domain.GenerationResult{ID: req.Prompt}, nil
		})
		coordinator := domain.NewBatchCoordinator(gen, nil, 0, 8)

		prompts := []string{"a", "ab", "abc", "abcd", "abcde", "abcdef"}
		result, err := coordinator.Execute(ctx, batchOf(prompts...))
		require.NoError(t, err)
		for i, p := range prompts {
			require.Equal(t, p, result.Results[i].ID)
		}
	})

	t.Run("should stop a sequential batch on first failure", func(t *testing.T) {
		var calls atomic.Int32
		coordinator := domain.NewBatchCoordinator(echoGenerator(&calls), nil, 0, 4)

		req := batchOf("one", "two fail", "three", "four")
		req.Parallel = boolPtr(false)
		req.ContinueOnError = boolPtr(false)

		result, err := coordinator.Execute(ctx, req)
		require.NoError(t, err)
		require.Equal(t, int32(2), calls.Load())
		require.Equal(t, 1, result.Successful)
		require.Equal(t, 1, result.Failed)
		require.Equal(t, 2, result.Skipped)
		require.Equal(t, []domain.ItemStatus{
			domain.ItemSucceeded, domain.ItemFailed, domain.ItemSkipped, domain.ItemSkipped,
		}, result.Statuses)
		require.Nil(t, result.Errors[2])
		require.Nil(t, result.Results[3])
	})

	t.Run("should continue a sequential batch when asked", func(t *testing.T) {
		var calls atomic.Int32
		coordinator := domain.NewBatchCoordinator(echoGenerator(&calls), nil, 0, 4)

		req := batchOf("fail one", "two", "fail three")
		req.Parallel = boolPtr(false)

		result, err := coordinator.Execute(ctx, req)
		require.NoError(t, err)
		require.Equal(t, int32(3), calls.Load())
		require.Equal(t, 1, result.Successful)
		require.Equal(t, 2, result.Failed)
	})

	t.Run("should skip undispatched items after a parallel failure", func(t *testing.T) {
		var calls atomic.Int32
		coordinator := domain.NewBatchCoordinator(echoGenerator(&calls), nil, 0, 1)

		req := batchOf("fail first", "two", "three")
		req.ContinueOnError = boolPtr(false)

		result, err := coordinator.Execute(ctx, req)
		require.NoError(t, err)
		require.Equal(t, int32(1), calls.Load())
		require.Equal(t, 1, result.Failed)
		require.Equal(t, 2, result.Skipped)
		require.Equal(t, result.Total, result.Successful+result.Failed+result.Skipped)
	})

	t.Run("should bound parallelism", func(t *testing.T) {
		var inFlight, peak atomic.Int32
		var mu sync.Mutex
		gen := generatorFunc(func(_ context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
			n := inFlight.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return &domain.GenerationResult{ID: req.Prompt}, nil
		})
		coordinator := domain.NewBatchCoordinator(gen, nil, 0, 2)

		result, err := coordinator.Execute(ctx, batchOf("a", "b", "c", "d", "e", "f", "g", "h"))
		require.NoError(t, err)
		require.Equal(t, 8, result.Successful)
		require.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("should reject out-of-range sizes", func(t *testing.T) {
		var calls atomic.Int32
		coordinator := domain.NewBatchCoordinator(echoGenerator(&calls), nil, 0, 4)

		_, err := coordinator.Execute(ctx, batchOf())
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)

		prompts := make([]string, domain.DefaultMaxBatchSize+1)
		for i := range prompts {
			prompts[i] = "prompt"
		}
		_, err = coordinator.Execute(ctx, batchOf(prompts...))
		require.ErrorAs(t, err, &validationErr)

		_, err = coordinator.Execute(ctx, nil)
		require.Error(t, err)
		require.Zero(t, calls.Load())
	})

	t.Run("should accept the maximum size", func(t *testing.T) {
		var calls atomic.Int32
		coordinator := domain.NewBatchCoordinator(echoGenerator(&calls), nil, 0, 10)

		prompts := make([]string, domain.DefaultMaxBatchSize)
		for i := range prompts {
			prompts[i] = "prompt"
		}
		result, err := coordinator.Execute(ctx, batchOf(prompts...))
		require.NoError(t, err)
		require.Equal(t, domain.DefaultMaxBatchSize, result.Successful)
	})
}
