package model

import (
	"time"
)

// PlayerProgression is the long-lived per-player state the pipeline
// mutates. XP and TotalRewardsEarned never decrease; Level is a
// deterministic non-decreasing function of XP.
type PlayerProgression struct {
	Subject            string          `json:"subject"`
	XP                 int64           `json:"xp"`
	Level              int             `json:"level"`
	Streak             int             `json:"streak"`
	LastActivityAt     time.Time       `json:"last_activity_at"`
	TotalRewardsEarned int64           `json:"total_rewards_earned"`
	BestScore          int64           `json:"best_score"`
	ChainActivity      map[Chain]int64 `json:"chain_activity"`
	ChurnRiskScore     int             `json:"churn_risk_score"` // 0-100
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// NewPlayerProgression returns the initial state for a subject seen for
// the first time.
func NewPlayerProgression(subject string, now time.Time) *PlayerProgression {
	return &PlayerProgression{
		Subject:       subject,
		Level:         1,
		ChainActivity: make(map[Chain]int64),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NextStreak applies the streak law to the gap between the previous
// activity day and now, both taken in UTC calendar days:
//
//	gap == 0 → streak unchanged (same-day repeat)
//	gap == 1 → streak + 1
//	gap >= 2 → reset to 1
//
// A player with no prior activity starts at 1.
func NextStreak(current int, lastActivityAt, now time.Time) int {
	if lastActivityAt.IsZero() {
		return 1
	}
	gap := calendarDayGap(lastActivityAt, now)
	switch {
	case gap <= 0:
		if current < 1 {
			return 1
		}
		return current
	case gap == 1:
		return current + 1
	default:
		return 1
	}
}

func calendarDayGap(from, to time.Time) int {
	fromDay := from.UTC().Truncate(24 * time.Hour)
	toDay := to.UTC().Truncate(24 * time.Hour)
	return int(toDay.Sub(fromDay) / (24 * time.Hour))
}

// ChurnRisk estimates disengagement likelihood from the inactivity gap
// and the streak at last sight. Scores of 70+ trigger retention quests
// in the generator.
func ChurnRisk(lastActivityAt, now time.Time, streak int) int {
	if lastActivityAt.IsZero() {
		return 50
	}
	idleDays := calendarDayGap(lastActivityAt, now)
	score := idleDays * 10
	if streak >= 7 {
		// Long-streak players who go quiet are the sharpest churn signal.
		score += 15
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
