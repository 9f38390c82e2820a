package engine

import (
	"sync"
	"time"

	"github.com/questforge/progression-engine/internal/metrics"
)

// Status is the engine's coarse liveness state.
type Status string

const (
	StatusUnknown   Status = "UNKNOWN"
	StatusHealthy   Status = "HEALTHY"
	StatusUnhealthy Status = "UNHEALTHY"
	StatusInactive  Status = "INACTIVE"
)

// staleAfter is how long without an applied event before a running
// engine reports UNHEALTHY. Quiet streams are expected off-peak; this
// is deliberately generous.
const staleAfter = 10 * time.Minute

// Health tracks when the engine last did useful work.
type Health struct {
	mu          sync.Mutex
	running     bool
	startedAt   time.Time
	lastEventAt time.Time
	events      int64

	nowFn func() time.Time
}

func NewHealth() *Health {
	return &Health{nowFn: time.Now}
}

func (h *Health) MarkStarted() {
	h.mu.Lock()
	h.running = true
	h.startedAt = h.nowFn()
	h.mu.Unlock()
	metrics.EngineHealthStatus.Set(1)
}

func (h *Health) MarkStopped() {
	h.mu.Lock()
	h.running = false
	h.mu.Unlock()
	metrics.EngineHealthStatus.Set(3)
}

func (h *Health) MarkEvent() {
	h.mu.Lock()
	h.lastEventAt = h.nowFn()
	h.events++
	h.mu.Unlock()
}

// Snapshot is the health view the query surface serves.
type Snapshot struct {
	Status      Status    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	LastEventAt time.Time `json:"last_event_at"`
	Events      int64     `json:"events_applied"`
}

func (h *Health) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := Snapshot{
		StartedAt:   h.startedAt,
		LastEventAt: h.lastEventAt,
		Events:      h.events,
	}
	switch {
	case !h.running && h.startedAt.IsZero():
		s.Status = StatusUnknown
	case !h.running:
		s.Status = StatusInactive
	case !h.lastEventAt.IsZero() && h.nowFn().Sub(h.lastEventAt) > staleAfter:
		s.Status = StatusUnhealthy
	default:
		s.Status = StatusHealthy
	}
	return s
}
