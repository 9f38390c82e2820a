package model

import (
	"time"

	"github.com/google/uuid"
)

// DefinitionOrigin records who created a quest definition.
type DefinitionOrigin string

const (
	OriginAdmin     DefinitionOrigin = "admin"
	OriginGenerator DefinitionOrigin = "generator"
)

// QuestDefinition is a single-completion, event-triggered progression
// unit. A subject completes a given quest id at most once; the
// definition as a whole completes at most MaxCompletions times.
type QuestDefinition struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Category        EventCategory    `json:"category"`
	TargetEmitter   string           `json:"target_emitter"` // empty: any emitter
	MinAmount       int64            `json:"min_amount"`
	ChainScope      Chain            `json:"chain_scope"`
	BaseReward      int64            `json:"base_reward"`
	BonusNFTRef     string           `json:"bonus_nft_ref"` // empty: no collectible bonus
	Difficulty      int              `json:"difficulty"`    // 1..5
	MaxCompletions  int64            `json:"max_completions"`
	CompletionCount int64            `json:"completion_count"`
	WindowStart     time.Time        `json:"window_start"`
	WindowEnd       time.Time        `json:"window_end"` // zero: unbounded
	IsActive        bool             `json:"is_active"`
	Origin          DefinitionOrigin `json:"origin"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// MatchableAt reports whether the definition can still accept
// completions at the given instant. It does not evaluate per-subject
// state or the minAmount predicate.
func (q *QuestDefinition) MatchableAt(now time.Time) bool {
	if !q.IsActive {
		return false
	}
	if q.MaxCompletions > 0 && q.CompletionCount >= q.MaxCompletions {
		return false
	}
	if now.Before(q.WindowStart) {
		return false
	}
	if !q.WindowEnd.IsZero() && now.After(q.WindowEnd) {
		return false
	}
	return true
}

// Expired reports whether the definition's window has closed. Expired
// definitions are pruned from active-matching scans but kept in history.
func (q *QuestDefinition) Expired(now time.Time) bool {
	return !q.WindowEnd.IsZero() && now.After(q.WindowEnd)
}

// AchievementDefinition is a cumulative-progress, threshold-triggered
// progression unit: it unlocks once a subject has accumulated
// RequiredCount qualifying events.
type AchievementDefinition struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Category      EventCategory `json:"category"`
	TargetEmitter string        `json:"target_emitter"`
	MinAmount     int64         `json:"min_amount"`
	ChainScope    Chain         `json:"chain_scope"`
	RequiredCount int64         `json:"required_count"`
	BaseReward    int64         `json:"base_reward"`
	BonusNFTRef   string        `json:"bonus_nft_ref"`
	Difficulty    int           `json:"difficulty"`
	UnlockCount   int64         `json:"unlock_count"` // population-wide unlocks
	IsActive      bool          `json:"is_active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// RarityScore derives a 0-100 score from the population-wide completion
// rate: the rarer the unlock, the higher the score. population is the
// number of players the engine has seen.
func (a *AchievementDefinition) RarityScore(population int64) int64 {
	if population <= 0 {
		return 100
	}
	rate := a.UnlockCount * 100 / population
	if rate > 100 {
		rate = 100
	}
	return 100 - rate
}

// AchievementProgress is the per-(subject, achievement) accumulation
// counter. At most one step is recorded per event per achievement id.
type AchievementProgress struct {
	Subject       string    `json:"subject"`
	AchievementID uuid.UUID `json:"achievement_id"`
	Progress      int64     `json:"progress"`
	Unlocked      bool      `json:"unlocked"`
	UnlockedAt    time.Time `json:"unlocked_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
