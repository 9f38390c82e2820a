package model

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "UPCOMING"
	TournamentActive    TournamentStatus = "ACTIVE"
	TournamentCompleted TournamentStatus = "COMPLETED"
	TournamentCancelled TournamentStatus = "CANCELLED"
)

// Tournament is a time-boxed, per-scope competition. Scores become
// immutable once the status reaches COMPLETED; settlement happens
// exactly once.
type Tournament struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Scope     []Chain          `json:"scope"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	PrizePool int64            `json:"prize_pool"`
	Status    TournamentStatus `json:"status"`
	SettledAt time.Time        `json:"settled_at"`
	CreatedAt time.Time        `json:"created_at"`
}

// InScope reports whether activity on chain counts toward the
// tournament. An empty scope accepts every chain.
func (t *Tournament) InScope(chain Chain) bool {
	if len(t.Scope) == 0 {
		return true
	}
	for _, c := range t.Scope {
		if c.Matches(chain) {
			return true
		}
	}
	return false
}

// AcceptsScores reports whether score updates are still allowed.
func (t *Tournament) AcceptsScores(now time.Time) bool {
	if t.Status != TournamentActive {
		return false
	}
	return !now.Before(t.StartTime) && now.Before(t.EndTime)
}

// TournamentScore is one participant's accumulated score.
type TournamentScore struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	Subject      string    `json:"subject"`
	Score        int64     `json:"score"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TournamentPayout is one settled prize line.
type TournamentPayout struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	Subject      string    `json:"subject"`
	Rank         int       `json:"rank"`
	Amount       int64     `json:"amount"`
}
