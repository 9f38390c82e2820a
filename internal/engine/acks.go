package engine

import "sync"

// offsetTracker keeps the durable stream checkpoint behind apply
// completion. The consumer appends delivery IDs in stream order; stages
// mark them done as they finish with an event, in any order. The
// checkpoint may only move to the newest ID whose every predecessor is
// also done, so a crash redelivers everything that was still in flight.
type offsetTracker struct {
	mu      sync.Mutex
	pending []offsetEntry
}

type offsetEntry struct {
	id   string
	done bool
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{}
}

// Track registers a delivered stream ID. IDs must arrive in stream
// order; the single consumer goroutine guarantees that.
func (t *offsetTracker) Track(id string) {
	t.mu.Lock()
	t.pending = append(t.pending, offsetEntry{id: id})
	t.mu.Unlock()
}

// Complete marks id done and returns the newest checkpointable ID, or
// "" when the oldest delivery is still in flight.
func (t *offsetTracker) Complete(id string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.pending {
		if t.pending[i].id == id {
			t.pending[i].done = true
			break
		}
	}
	var commit string
	for len(t.pending) > 0 && t.pending[0].done {
		commit = t.pending[0].id
		t.pending = t.pending[1:]
	}
	return commit
}
