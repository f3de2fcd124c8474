package domain

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/davidbz/atelier/internal/observability"
)

// DefaultMaxBatchSize is the largest batch accepted when no bound is configured.
const DefaultMaxBatchSize = 50

// Generator runs one generation request. GenerationService satisfies it.
type Generator interface {
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)
}

// BatchCoordinator fans a batch out over a Generator and aggregates the outcome.
type BatchCoordinator struct {
	generator      Generator
	events         EventPublisher
	maxBatchSize   int
	maxConcurrency int64
}

// NewBatchCoordinator creates a new batch coordinator (DI constructor).
func NewBatchCoordinator(generator Generator, events EventPublisher, maxBatchSize int, maxConcurrency int64) *BatchCoordinator {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	return &BatchCoordinator{
		generator:      generator,
		events:         events,
		maxBatchSize:   maxBatchSize,
		maxConcurrency: maxConcurrency,
	}
}

// Execute runs every item of the batch. Item failures are reported positionally; only an
// out-of-range batch size is returned as an error.
func (b *BatchCoordinator) Execute(ctx context.Context, req *BatchRequest) (*BatchResult, error) {
	if req == nil {
		return nil, &ValidationError{Field: "requests", Reason: "batch cannot be nil"}
	}
	if err := ValidateBatchSize(len(req.Requests), b.maxBatchSize); err != nil {
		return nil, err
	}

	logger := observability.FromContext(ctx)
	logger.Info("batch generation started",
		observability.Int("items", len(req.Requests)),
		observability.Bool("parallel", req.IsParallel()),
		observability.Bool("continue_on_error", req.ShouldContinueOnError()))

	result := newBatchResult(len(req.Requests))
	if req.IsParallel() {
		b.runParallel(ctx, req, result)
	} else {
		b.runSequential(ctx, req, result)
	}
	result.tally()

	logger.Info("batch generation completed",
		observability.Int("successful", result.Successful),
		observability.Int("failed", result.Failed),
		observability.Int("skipped", result.Skipped))
	if b.events != nil {
		b.events.Publish(ctx, "batch.completed", map[string]interface{}{
			"total":      result.Total,
			"successful": result.Successful,
			"failed":     result.Failed,
			"skipped":    result.Skipped,
		})
	}

	return result, nil
}

func (b *BatchCoordinator) runSequential(ctx context.Context, req *BatchRequest, result *BatchResult) {
	stopped := false
	for i := range req.Requests {
		if stopped {
			result.Statuses[i] = ItemSkipped
			continue
		}
		if !b.runItem(ctx, req, i, result) && !req.ShouldContinueOnError() {
			stopped = true
		}
	}
}

func (b *BatchCoordinator) runParallel(ctx context.Context, req *BatchRequest, result *BatchResult) {
	sem := semaphore.NewWeighted(b.maxConcurrency)
	var stop atomic.Bool
	var wg sync.WaitGroup

	for i := range req.Requests {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Caller went away; nothing further is dispatched.
			for j := i; j < len(req.Requests); j++ {
				result.Statuses[j] = ItemSkipped
			}
			break
		}
		if stop.Load() {
			sem.Release(1)
			result.Statuses[i] = ItemSkipped
			continue
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)

			if !b.runItem(ctx, req, i, result) && !req.ShouldContinueOnError() {
				stop.Store(true)
			}
		}(i)
	}

	wg.Wait()
}

// runItem writes the outcome of item i at its own index and reports success.
func (b *BatchCoordinator) runItem(ctx context.Context, req *BatchRequest, i int, result *BatchResult) bool {
	generated, err := b.generator.Generate(ctx, &req.Requests[i])
	if err != nil {
		msg := fmt.Sprintf("generation %d failed: %v", i+1, err)
		observability.FromContext(ctx).Warn("batch item failed",
			observability.Int("index", i),
			observability.Error(err))
		result.Errors[i] = &msg
		result.Statuses[i] = ItemFailed
		return false
	}

	result.Results[i] = generated
	result.Statuses[i] = ItemSucceeded
	return true
}

func newBatchResult(n int) *BatchResult {
	return &BatchResult{
		Total:    n,
		Results:  make([]*GenerationResult, n),
		Errors:   make([]*string, n),
		Statuses: make([]ItemStatus, n),
	}
}

func (r *BatchResult) tally() {
	for _, status := range r.Statuses {
		switch status {
		case ItemSucceeded:
			r.Successful++
		case ItemFailed:
			r.Failed++
		case ItemSkipped:
			r.Skipped++
		}
	}
}
