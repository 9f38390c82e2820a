package redisstream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStreamOffset(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"42", 42, false},
		{"123-0", 123, false},
		{"  7 ", 7, false},
		{"-5", 0, false},
		{"abc", 0, true},
		{"12x-0", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStreamOffset(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateStreamOffset(t *testing.T) {
	valid := []string{"", "0", "42", "123-0", "1749556800000-7"}
	for _, raw := range valid {
		assert.NoError(t, ValidateStreamOffset(raw), "offset %q", raw)
	}

	invalid := []string{"abc", "-1", "12-", "-0-1", "1-x", "1--2"}
	for _, raw := range invalid {
		assert.Error(t, ValidateStreamOffset(raw), "offset %q", raw)
	}
}

type testMessage struct {
	Value string `json:"value"`
}

func TestInMemoryStreamPublishRead(t *testing.T) {
	s := NewInMemoryStream()
	defer s.Close()
	ctx := context.Background()

	id1, err := s.PublishJSON(ctx, "events", testMessage{Value: "first"})
	require.NoError(t, err)
	id2, err := s.PublishJSON(ctx, "events", testMessage{Value: "second"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	var msg testMessage
	next, err := s.ReadJSON(ctx, "events", "", &msg)
	require.NoError(t, err)
	assert.Equal(t, "first", msg.Value)

	next, err = s.ReadJSON(ctx, "events", next, &msg)
	require.NoError(t, err)
	assert.Equal(t, "second", msg.Value)
	assert.Equal(t, id2, next)
}

func TestInMemoryStreamBlocksUntilPublish(t *testing.T) {
	s := NewInMemoryStream()
	defer s.Close()
	ctx := context.Background()

	got := make(chan testMessage, 1)
	go func() {
		var msg testMessage
		if _, err := s.ReadJSON(ctx, "events", "", &msg); err == nil {
			got <- msg
		}
	}()

	time.Sleep(10 * time.Millisecond)
	_, err := s.PublishJSON(ctx, "events", testMessage{Value: "late"})
	require.NoError(t, err)

	select {
	case msg := <-got:
		assert.Equal(t, "late", msg.Value)
	case <-time.After(time.Second):
		t.Fatal("reader never woke up")
	}
}

func TestInMemoryStreamReadHonorsCancel(t *testing.T) {
	s := NewInMemoryStream()
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var msg testMessage
	_, err := s.ReadJSON(ctx, "empty", "", &msg)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInMemoryStreamCheckpoints(t *testing.T) {
	s := NewInMemoryStream()
	defer s.Close()
	ctx := context.Background()

	v, err := s.LoadStreamCheckpoint(ctx, "cp:events")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.PersistStreamCheckpoint(ctx, "cp:events", "42"))
	v, err = s.LoadStreamCheckpoint(ctx, "cp:events")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestInMemoryStreamIsolatedStreams(t *testing.T) {
	s := NewInMemoryStream()
	defer s.Close()
	ctx := context.Background()

	_, err := s.PublishJSON(ctx, "a", testMessage{Value: "for-a"})
	require.NoError(t, err)

	readCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	var msg testMessage
	_, err = s.ReadJSON(readCtx, "b", "", &msg)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
