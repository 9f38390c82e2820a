package redisstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// InMemoryStream is a process-local MessageTransport used by tests and
// single-process deployments that skip Redis.
type InMemoryStream struct {
	mu          sync.Mutex
	cond        *sync.Cond
	streams     map[string][][]byte
	checkpoints map[string]string
	closed      bool
}

func NewInMemoryStream() *InMemoryStream {
	s := &InMemoryStream{
		streams:     make(map[string][][]byte),
		checkpoints: make(map[string]string),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *InMemoryStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
	return nil
}

func (s *InMemoryStream) PublishJSON(_ context.Context, stream string, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode stream message: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", fmt.Errorf("stream closed")
	}
	s.streams[stream] = append(s.streams[stream], body)
	id := strconv.Itoa(len(s.streams[stream]))
	s.cond.Broadcast()
	return id, nil
}

func (s *InMemoryStream) ReadJSON(ctx context.Context, stream string, lastID string, dst any) (string, error) {
	offset, err := ParseStreamOffset(lastID)
	if err != nil {
		return "", err
	}

	// Wake the waiter when ctx is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Take the lock so the broadcast lands after the reader
			// has entered Wait.
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		case <-done:
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if s.closed {
			return "", fmt.Errorf("stream closed")
		}
		entries := s.streams[stream]
		if int64(len(entries)) > offset {
			body := entries[offset]
			if err := json.Unmarshal(body, dst); err != nil {
				return "", fmt.Errorf("decode stream message: %w", err)
			}
			return strconv.FormatInt(offset+1, 10), nil
		}
		s.cond.Wait()
	}
}

func (s *InMemoryStream) LoadStreamCheckpoint(_ context.Context, checkpointKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpoints[checkpointKey], nil
}

func (s *InMemoryStream) PersistStreamCheckpoint(_ context.Context, checkpointKey, streamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[checkpointKey] = streamID
	return nil
}
