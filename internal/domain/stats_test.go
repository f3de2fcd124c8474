package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/mocks"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestStatsService_Summarize(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()

	t.Run("should return zeros for an empty window", func(t *testing.T) {
		history := mocks.NewMockHistoryStore(t)
		history.EXPECT().Query(mock.Anything, mock.Anything).Return(&domain.HistoryPage{}, nil).Once()

		svc := domain.NewStatsService(history, clock.Now)
		summary, err := svc.Summarize(ctx, domain.StatsQuery{})
		require.NoError(t, err)
		require.Equal(t, domain.DefaultWindowDays, summary.PeriodDays)
		require.Zero(t, summary.TotalGenerations)
		require.Zero(t, summary.SuccessRate)
		require.Zero(t, summary.AverageGenerationTime)
		require.Zero(t, summary.AverageQualityScore)
	})

	t.Run("should aggregate breakdowns and averages", func(t *testing.T) {
		records := []domain.HistoryRecord{
			{Status: domain.StatusCompleted, Mode: domain.ModeAI, GenerationTime: floatPtr(2), QualityScore: floatPtr(0.9)},
			{Status: domain.StatusCompleted, Mode: domain.ModeManual, GenerationTime: floatPtr(4), QualityScore: floatPtr(0.7)},
			{Status: domain.StatusFailed, Mode: domain.ModeAI, GenerationTime: floatPtr(60)},
		}

		history := mocks.NewMockHistoryStore(t)
		history.EXPECT().Query(mock.Anything, mock.MatchedBy(func(f domain.HistoryFilter) bool {
			since := f.Since.UnwrapOr(time.Time{})
			return f.UserID == 7 &&
				f.ProjectID == fn.Some(int64(3)) &&
				since.Equal(clock.Now().Add(-7*24*time.Hour)) &&
				f.Limit == 0
		})).Return(&domain.HistoryPage{Total: 3, Records: records}, nil).Once()

		svc := domain.NewStatsService(history, clock.Now)
		summary, err := svc.Summarize(ctx, domain.StatsQuery{UserID: 7, ProjectID: fn.Some(int64(3)), WindowDays: 7})
		require.NoError(t, err)
		require.Equal(t, 7, summary.PeriodDays)
		require.Equal(t, 3, summary.TotalGenerations)
		require.Equal(t, map[string]int{"completed": 2, "failed": 1}, summary.StatusBreakdown)
		require.Equal(t, map[string]int{"ai": 2, "manual": 1}, summary.ModeBreakdown)
		require.InDelta(t, 3.0, summary.AverageGenerationTime, 0.0001)
		require.InDelta(t, 0.8, summary.AverageQualityScore, 0.0001)
		require.InDelta(t, 66.67, summary.SuccessRate, 0.0001)
	})

	t.Run("should wrap store errors", func(t *testing.T) {
		history := mocks.NewMockHistoryStore(t)
		history.EXPECT().Query(mock.Anything, mock.Anything).Return(nil, errors.New("locked")).Once()

		svc := domain.NewStatsService(history, clock.Now)
		_, err := svc.Summarize(ctx, domain.StatsQuery{})
		require.ErrorContains(t, err, "locked")
	})
}

func TestStatsService_History(t *testing.T) {
	ctx := context.Background()

	limits := []struct {
		name  string
		given int
		want  int
	}{
		{name: "default", given: 0, want: domain.DefaultHistoryLimit},
		{name: "explicit", given: 10, want: 10},
		{name: "capped", given: 1000, want: domain.MaxHistoryLimit},
	}
	for _, tt := range limits {
		t.Run("should apply "+tt.name+" limit", func(t *testing.T) {
			history := mocks.NewMockHistoryStore(t)
			history.EXPECT().Query(mock.Anything, mock.MatchedBy(func(f domain.HistoryFilter) bool {
				return f.Limit == tt.want && f.UserID == domain.DefaultUserID
			})).Return(&domain.HistoryPage{Limit: tt.want}, nil).Once()

			svc := domain.NewStatsService(history, nil)
			page, err := svc.History(ctx, domain.HistoryQuery{Limit: tt.given})
			require.NoError(t, err)
			require.Equal(t, tt.want, page.Limit)
		})
	}

	t.Run("should pass the status filter through", func(t *testing.T) {
		history := mocks.NewMockHistoryStore(t)
		history.EXPECT().Query(mock.Anything, mock.MatchedBy(func(f domain.HistoryFilter) bool {
			return f.Status == fn.Some(domain.StatusFailed) && f.Offset == 20
		})).Return(&domain.HistoryPage{}, nil).Once()

		svc := domain.NewStatsService(history, nil)
		_, err := svc.History(ctx, domain.HistoryQuery{Status: fn.Some(domain.StatusFailed), Offset: 20})
		require.NoError(t, err)
	})

	t.Run("should reject a negative offset", func(t *testing.T) {
		svc := domain.NewStatsService(mocks.NewMockHistoryStore(t), nil)
		_, err := svc.History(ctx, domain.HistoryQuery{Offset: -1})
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestStatsService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("should return not found unchanged", func(t *testing.T) {
		history := mocks.NewMockHistoryStore(t)
		history.EXPECT().Get(mock.Anything, "nope").Return(nil, domain.ErrNotFound).Once()

		svc := domain.NewStatsService(history, nil)
		_, err := svc.Get(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("should reject an empty id", func(t *testing.T) {
		svc := domain.NewStatsService(mocks.NewMockHistoryStore(t), nil)
		_, err := svc.Get(ctx, "")
		require.Error(t, err)
	})
}
