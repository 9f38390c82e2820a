package event

import (
	"github.com/google/uuid"
)

// DropReason explains why a notification produced no progression effect.
type DropReason string

const (
	DropNone           DropReason = ""
	DropDuplicate      DropReason = "duplicate"
	DropUnclassifiable DropReason = "unclassifiable"
	DropDecodeError    DropReason = "decode_error"
	DropInvalid        DropReason = "invalid"
	DropUnauthorized   DropReason = "unauthorized_source"
)

// QuestCompletion is one (subject, quest) completion produced by a
// single notification.
type QuestCompletion struct {
	QuestID uuid.UUID
	Reward  int64
	XP      int64
}

// AchievementStep is one accumulation step; Unlocked marks the step
// that crossed the required threshold.
type AchievementStep struct {
	AchievementID uuid.UUID
	Progress      int64
	Unlocked      bool
	Reward        int64
	XP            int64
}

// Outcome summarises one notification's full pass through the pipeline.
// It exists for observability and tests; nothing downstream consumes it.
type Outcome struct {
	Fingerprint      string
	Subject          string
	Drop             DropReason
	Completions      []QuestCompletion
	AchievementSteps []AchievementStep
	XPGained         int64
	LevelBefore      int
	LevelAfter       int
	Streak           int
}

// Dropped reports whether the notification was discarded before
// matching.
func (o Outcome) Dropped() bool {
	return o.Drop != DropNone
}
