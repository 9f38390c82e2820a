package generator

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/time/rate"

	"github.com/questforge/progression-engine/internal/domain/model"
	storemocks "github.com/questforge/progression-engine/internal/store/mocks"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVolatilityReading(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := New(storemocks.NewMockQuestRepository(ctrl), newTestLogger())

	// Fewer than two observations cannot disperse.
	assert.Zero(t, g.Volatility(model.ChainBase))
	g.Observe(model.ChainBase, 100)
	assert.Zero(t, g.Volatility(model.ChainBase))

	// Identical magnitudes: zero dispersion.
	g.Observe(model.ChainBase, 100)
	g.Observe(model.ChainBase, 100)
	assert.Zero(t, g.Volatility(model.ChainBase))

	// Wildly dispersed magnitudes cap at 100.
	for _, m := range []int64{1, 1, 1, 100_000} {
		g.Observe(model.ChainPolygon, m)
	}
	assert.Equal(t, int64(100), g.Volatility(model.ChainPolygon))
}

func TestActivityReading(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := New(storemocks.NewMockQuestRepository(ctrl), newTestLogger())

	assert.Zero(t, g.Activity(model.ChainBase))

	for i := 0; i < 500; i++ {
		g.Observe(model.ChainBase, 100)
	}
	assert.Equal(t, int64(50), g.Activity(model.ChainBase))

	for i := 0; i < 2000; i++ {
		g.Observe(model.ChainBase, 100)
	}
	assert.Equal(t, int64(100), g.Activity(model.ChainBase))
}

func TestObservationWindowExpiry(t *testing.T) {
	ctrl := gomock.NewController(t)

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	g := New(storemocks.NewMockQuestRepository(ctrl), newTestLogger(),
		WithNowFunc(func() time.Time { return now }))

	for i := 0; i < 100; i++ {
		g.Observe(model.ChainBase, 100)
	}
	assert.Equal(t, int64(10), g.Activity(model.ChainBase))

	// Observations older than an hour fall out of the window.
	now = now.Add(2 * time.Hour)
	assert.Zero(t, g.Activity(model.ChainBase))
}

func TestDifficultyForVolatility(t *testing.T) {
	tests := []struct {
		v    int64
		want int
	}{
		{0, 1}, {20, 1}, {21, 2}, {40, 2}, {41, 3}, {60, 3}, {61, 4}, {80, 4}, {81, 5}, {100, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DifficultyForVolatility(tt.v), "volatility %d", tt.v)
	}
}

func TestEvaluateBelowTriggersCreatesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	quests := storemocks.NewMockQuestRepository(ctrl)
	g := New(quests, newTestLogger(), WithTriggers(60, 70))

	// Steady low-magnitude flow: low volatility, low activity.
	for i := 0; i < 50; i++ {
		g.Observe(model.ChainBase, 100)
	}

	require.NoError(t, g.Evaluate(context.Background()))
}

func TestEvaluateVolatilitySpawnsSwapQuest(t *testing.T) {
	ctrl := gomock.NewController(t)
	quests := storemocks.NewMockQuestRepository(ctrl)

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	g := New(quests, newTestLogger(),
		WithTriggers(60, 70),
		WithRateLimit(rate.Inf, 1),
		WithNowFunc(func() time.Time { return now }))

	for _, m := range []int64{1, 1, 1, 100_000} {
		g.Observe(model.ChainBase, m)
	}

	var created *model.QuestDefinition
	quests.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *model.QuestDefinition) error {
			created = q
			return nil
		})

	require.NoError(t, g.Evaluate(context.Background()))
	require.NotNil(t, created)

	assert.Equal(t, model.CategorySwap, created.Category)
	assert.Equal(t, model.ChainBase, created.ChainScope)
	assert.Equal(t, model.OriginGenerator, created.Origin)
	assert.Equal(t, 5, created.Difficulty)
	assert.True(t, created.IsActive)
	assert.Equal(t, now, created.WindowStart)
	assert.Equal(t, now.Add(24*time.Hour), created.WindowEnd)
	// Volatility 100, activity 0: floor 500 plus 500*100/100.
	assert.Equal(t, int64(1000), created.BaseReward)
}

func TestEvaluateActivitySpawnsTransferQuest(t *testing.T) {
	ctrl := gomock.NewController(t)
	quests := storemocks.NewMockQuestRepository(ctrl)

	g := New(quests, newTestLogger(),
		WithTriggers(60, 70),
		WithRateLimit(rate.Inf, 1))

	// High throughput of identical magnitudes: activity without
	// volatility.
	for i := 0; i < 900; i++ {
		g.Observe(model.ChainPolygon, 100)
	}

	var created *model.QuestDefinition
	quests.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *model.QuestDefinition) error {
			created = q
			return nil
		})

	require.NoError(t, g.Evaluate(context.Background()))
	require.NotNil(t, created)
	assert.Equal(t, model.CategoryTransfer, created.Category)
	assert.Contains(t, created.Name, "activity rush")
}

func TestEvaluateRateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	quests := storemocks.NewMockQuestRepository(ctrl)

	g := New(quests, newTestLogger(),
		WithTriggers(60, 70),
		WithRateLimit(rate.Every(time.Hour), 1))

	for _, m := range []int64{1, 1, 1, 100_000} {
		g.Observe(model.ChainBase, m)
	}

	// First pass consumes the only token; the second creates nothing.
	quests.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	require.NoError(t, g.Evaluate(context.Background()))
	require.NoError(t, g.Evaluate(context.Background()))
}

func TestSetTriggers(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := New(storemocks.NewMockQuestRepository(ctrl), newTestLogger())

	g.SetTriggers(90, 95)
	vol, act := g.Triggers()
	assert.Equal(t, int64(90), vol)
	assert.Equal(t, int64(95), act)

	// Non-positive values leave the current thresholds alone.
	g.SetTriggers(0, -1)
	vol, act = g.Triggers()
	assert.Equal(t, int64(90), vol)
	assert.Equal(t, int64(95), act)
}
