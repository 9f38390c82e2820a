package event

import (
	"time"

	"github.com/questforge/progression-engine/internal/domain/model"
)

// Envelope wraps a notification as delivered by the ledger-observation
// relay. Source identifies the ingress and is checked against the
// engine's allow-list before any processing happens.
type Envelope struct {
	Source       string             `json:"source"`
	Notification model.Notification `json:"notification"`
	EnqueuedAt   time.Time          `json:"enqueued_at"`

	// StreamID is the transport delivery ID, set by the stream consumer
	// and empty for directly ingested envelopes. It never crosses the
	// wire.
	StreamID string `json:"-"`
}
