package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/progression-engine/internal/domain/event"
	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/engine/classifier"
	"github.com/questforge/progression-engine/internal/store/redisstream"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, allowed []string, opts ...Option) *Engine {
	t.Helper()
	return New(nil, classifier.New(), nil, "events", "cp", allowed, newTestLogger(), opts...)
}

func envelope(source string) event.Envelope {
	return event.Envelope{
		Source: source,
		Notification: model.Notification{
			Chain:       model.ChainBase,
			Emitter:     "0xDEX",
			RawCategory: "Transfer",
			Subject:     "0xPlayer",
			Payload:     []byte(`{"amount":100}`),
			BlockHeight: 7,
		},
		EnqueuedAt: time.Now(),
	}
}

func TestOnEventAllowList(t *testing.T) {
	e := newTestEngine(t, []string{"relay-1"})

	err := e.OnEvent(context.Background(), envelope("relay-2"))
	require.ErrorIs(t, err, ErrUnauthorizedSource)

	require.NoError(t, e.OnEvent(context.Background(), envelope("relay-1")))
	assert.Equal(t, 1, len(e.classifyCh))
}

func TestOnEventRejectsInvalidNotification(t *testing.T) {
	e := newTestEngine(t, []string{"relay-1"})

	env := envelope("relay-1")
	env.Notification.Subject = ""
	err := e.OnEvent(context.Background(), env)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorizedSource)
	assert.Zero(t, len(e.classifyCh))
}

func TestOnEventBackpressureHonorsContext(t *testing.T) {
	e := newTestEngine(t, []string{"relay-1"}, WithBufferSize(1))

	require.NoError(t, e.OnEvent(context.Background(), envelope("relay-1")))

	// Queue full with no running classify stage: the send must give up
	// when the context does.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := e.OnEvent(ctx, envelope("relay-1"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestShardForStableAndBounded(t *testing.T) {
	subjects := []string{"0xalice", "0xbob", "0xcarol", "0xdave", "0xeve"}
	for _, s := range subjects {
		first := shardFor(s, 4)
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, 4)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, shardFor(s, 4), "subject %s", s)
		}
	}
}

func TestShardForSpreadsSubjects(t *testing.T) {
	// The hash is not required to be uniform over any particular subject
	// set, only to avoid collapsing everything onto one shard.
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		shard := shardFor(fmt.Sprintf("player-%d", i), 4)
		require.GreaterOrEqual(t, shard, 0)
		require.Less(t, shard, 4)
		seen[shard] = true
	}
	assert.GreaterOrEqual(t, len(seen), 2)
}

func TestStreamCheckpointTrailsProcessing(t *testing.T) {
	stream := redisstream.NewInMemoryStream()
	e := New(stream, classifier.New(), nil, "events", "cp", []string{"relay-1"}, newTestLogger(), WithWorkers(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx)
	}()

	// First delivery reaches the classifier and gets dropped there;
	// second is rejected at the allow-list. Both are terminal, so the
	// checkpoint must end up past them — but never before the apply
	// path has fully disposed of each one.
	dropped := envelope("relay-1")
	dropped.Notification.RawCategory = "PairCreated"
	_, err := stream.PublishJSON(ctx, "events", dropped)
	require.NoError(t, err)
	_, err = stream.PublishJSON(ctx, "events", envelope("relay-9"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		cp, err := stream.LoadStreamCheckpoint(context.Background(), "cp")
		return err == nil && cp == "2"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestHealthLifecycle(t *testing.T) {
	h := NewHealth()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	h.nowFn = func() time.Time { return now }

	assert.Equal(t, StatusUnknown, h.Snapshot().Status)

	h.MarkStarted()
	assert.Equal(t, StatusHealthy, h.Snapshot().Status)

	h.MarkEvent()
	s := h.Snapshot()
	assert.Equal(t, StatusHealthy, s.Status)
	assert.Equal(t, int64(1), s.Events)

	// Quiet for longer than the staleness budget.
	now = now.Add(11 * time.Minute)
	assert.Equal(t, StatusUnhealthy, h.Snapshot().Status)

	h.MarkEvent()
	assert.Equal(t, StatusHealthy, h.Snapshot().Status)

	h.MarkStopped()
	assert.Equal(t, StatusInactive, h.Snapshot().Status)
}
