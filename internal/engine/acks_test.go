package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetTrackerInOrder(t *testing.T) {
	tr := newOffsetTracker()
	tr.Track("1")
	tr.Track("2")

	assert.Equal(t, "1", tr.Complete("1"))
	assert.Equal(t, "2", tr.Complete("2"))
}

func TestOffsetTrackerHoldsBehindInFlight(t *testing.T) {
	tr := newOffsetTracker()
	tr.Track("1")
	tr.Track("2")
	tr.Track("3")

	// The oldest delivery is still in flight: nothing may checkpoint,
	// or a crash would skip it.
	assert.Empty(t, tr.Complete("2"))
	assert.Empty(t, tr.Complete("3"))

	// Completing it releases the whole contiguous run.
	assert.Equal(t, "3", tr.Complete("1"))
}

func TestOffsetTrackerUnknownIDIsNoop(t *testing.T) {
	tr := newOffsetTracker()
	tr.Track("1")

	assert.Empty(t, tr.Complete("9"))
	assert.Equal(t, "1", tr.Complete("1"))
}
