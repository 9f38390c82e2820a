package randomness

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Source requests randomness from an external beacon. The value arrives
// asynchronously through the fulfill callback; callers must not assume
// it runs before Request returns.
type Source interface {
	Request(ctx context.Context, scope string, fulfill func(value uint64)) error
}

// Pending tracks in-flight requests for sources whose fulfillment comes
// back over a separate channel (webhook, stream message). Fulfill
// resolves a request id to its callback exactly once.
type Pending struct {
	mu       sync.Mutex
	inflight map[string]func(uint64)
}

func NewPending() *Pending {
	return &Pending{inflight: make(map[string]func(uint64))}
}

// Track registers a callback and returns the request id to hand to the
// external beacon.
func (p *Pending) Track(fulfill func(uint64)) string {
	id := uuid.NewString()
	p.mu.Lock()
	p.inflight[id] = fulfill
	p.mu.Unlock()
	return id
}

// Fulfill runs and forgets the callback for id. Unknown or repeated ids
// return an error.
func (p *Pending) Fulfill(id string, value uint64) error {
	p.mu.Lock()
	fulfill, ok := p.inflight[id]
	delete(p.inflight, id)
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("no pending randomness request %q", id)
	}
	fulfill(value)
	return nil
}

// Len reports the number of unfulfilled requests.
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inflight)
}

// LocalSource fulfills requests immediately from the local CSPRNG. It
// stands in for an external beacon in development and tests.
type LocalSource struct {
	logger *slog.Logger
}

func NewLocalSource(logger *slog.Logger) *LocalSource {
	return &LocalSource{logger: logger.With("component", "randomness")}
}

func (s *LocalSource) Request(ctx context.Context, scope string, fulfill func(uint64)) error {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return fmt.Errorf("read randomness: %w", err)
	}
	value := binary.BigEndian.Uint64(buf[:])
	s.logger.Debug("randomness fulfilled locally", "scope", scope)
	fulfill(value)
	return nil
}
