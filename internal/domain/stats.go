package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// DefaultWindowDays is the statistics window when none is given.
	DefaultWindowDays = 30

	// DefaultHistoryLimit is the page size when none is given.
	DefaultHistoryLimit = 50

	// MaxHistoryLimit caps the page size.
	MaxHistoryLimit = 200
)

// StatsQuery selects the records a summary covers.
type StatsQuery struct {
	UserID     int64
	ProjectID  fn.Option[int64]
	WindowDays int
}

// HistoryQuery selects one page of history.
type HistoryQuery struct {
	UserID    int64
	ProjectID fn.Option[int64]
	Status    fn.Option[Status]
	Limit     int
	Offset    int
}

// StatsService reads persisted history for listings and summaries.
type StatsService struct {
	history HistoryStore
	clock   Clock
}

// NewStatsService creates a new stats service (DI constructor).
func NewStatsService(history HistoryStore, clock Clock) *StatsService {
	if clock == nil {
		clock = time.Now
	}
	return &StatsService{history: history, clock: clock}
}

// Summarize aggregates the records created within the window.
func (s *StatsService) Summarize(ctx context.Context, q StatsQuery) (*StatsSummary, error) {
	if q.WindowDays <= 0 {
		q.WindowDays = DefaultWindowDays
	}
	if q.UserID == 0 {
		q.UserID = DefaultUserID
	}

	since := s.clock().Add(-time.Duration(q.WindowDays) * 24 * time.Hour)
	page, err := s.history.Query(ctx, HistoryFilter{
		UserID:    q.UserID,
		ProjectID: q.ProjectID,
		Since:     fn.Some(since),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	return summarize(q.WindowDays, page.Records), nil
}

// History returns one page of records, most recent first.
func (s *StatsService) History(ctx context.Context, q HistoryQuery) (*HistoryPage, error) {
	if q.UserID == 0 {
		q.UserID = DefaultUserID
	}
	if q.Limit <= 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Limit > MaxHistoryLimit {
		q.Limit = MaxHistoryLimit
	}
	if q.Offset < 0 {
		return nil, &ValidationError{Field: "offset", Reason: "must not be negative"}
	}

	page, err := s.history.Query(ctx, HistoryFilter{
		UserID:    q.UserID,
		ProjectID: q.ProjectID,
		Status:    q.Status,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return page, nil
}

// Get returns a single record.
func (s *StatsService) Get(ctx context.Context, id string) (*HistoryRecord, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "cannot be empty"}
	}

	record, err := s.history.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load generation %s: %w", id, err)
	}
	return record, nil
}

// summarize is pure so the zero-record case never divides by zero.
func summarize(windowDays int, records []HistoryRecord) *StatsSummary {
	summary := &StatsSummary{
		PeriodDays:       windowDays,
		TotalGenerations: len(records),
		StatusBreakdown:  map[string]int{},
		ModeBreakdown:    map[string]int{},
	}

	var timeSum, scoreSum float64
	var timeCount, scoreCount int
	for _, rec := range records {
		summary.StatusBreakdown[string(rec.Status)]++
		summary.ModeBreakdown[string(rec.Mode)]++

		if rec.Status != StatusCompleted {
			continue
		}
		if rec.GenerationTime != nil {
			timeSum += *rec.GenerationTime
			timeCount++
		}
		if rec.QualityScore != nil {
			scoreSum += *rec.QualityScore
			scoreCount++
		}
	}

	if timeCount > 0 {
		summary.AverageGenerationTime = round2(timeSum / float64(timeCount))
	}
	if scoreCount > 0 {
		summary.AverageQualityScore = round2(scoreSum / float64(scoreCount))
	}
	if summary.TotalGenerations > 0 {
		completed := summary.StatusBreakdown[string(StatusCompleted)]
		summary.SuccessRate = round2(float64(completed) / float64(summary.TotalGenerations) * 100)
	}

	return summary
}
