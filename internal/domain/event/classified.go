package event

import (
	"github.com/questforge/progression-engine/internal/domain/model"
)

// Classified is a notification that survived classification: its raw
// category mapped to a semantic category and its payload decoded.
type Classified struct {
	Notification model.Notification
	Fingerprint  string
	Decoded      *model.DecodedPayload

	// StreamID carries the transport delivery ID through the pipeline so
	// the checkpoint can advance once the event is fully applied.
	StreamID string
}

// Category returns the semantic category of the classified event.
func (c Classified) Category() model.EventCategory {
	return c.Decoded.Category
}
