package randomness

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingFulfillExactlyOnce(t *testing.T) {
	p := NewPending()

	var got uint64
	id := p.Track(func(v uint64) { got = v })
	assert.Equal(t, 1, p.Len())

	require.NoError(t, p.Fulfill(id, 42))
	assert.Equal(t, uint64(42), got)
	assert.Zero(t, p.Len())

	// A repeated or unknown id is an error, not a second callback run.
	assert.Error(t, p.Fulfill(id, 43))
	assert.Error(t, p.Fulfill("nonexistent", 1))
	assert.Equal(t, uint64(42), got)
}

func TestPendingIndependentRequests(t *testing.T) {
	p := NewPending()

	var a, b uint64
	idA := p.Track(func(v uint64) { a = v })
	idB := p.Track(func(v uint64) { b = v })
	assert.NotEqual(t, idA, idB)

	require.NoError(t, p.Fulfill(idB, 2))
	require.NoError(t, p.Fulfill(idA, 1))
	assert.Equal(t, uint64(1), a)
	assert.Equal(t, uint64(2), b)
}

func TestLocalSourceFulfillsSynchronously(t *testing.T) {
	src := NewLocalSource(slog.New(slog.NewTextHandler(io.Discard, nil)))

	fulfilled := false
	err := src.Request(context.Background(), "test-scope", func(v uint64) {
		fulfilled = true
	})
	require.NoError(t, err)
	assert.True(t, fulfilled)
}
