package tournament

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/metrics"
	"github.com/questforge/progression-engine/internal/store"
)

// LeaderboardSize is how many ranked entries each board retains.
const LeaderboardSize = 100

// Aggregator routes score deltas into active tournaments and maintains
// an in-memory top-N per board. The in-memory board is a display cache
// updated opportunistically; settlement always ranks from the store.
type Aggregator struct {
	repo   store.TournamentRepository
	logger *slog.Logger

	mu     sync.RWMutex
	active []model.Tournament
	boards map[uuid.UUID]*board

	nowFn func() time.Time
}

type board struct {
	entries []model.TournamentScore
	bySubj  map[string]int
}

func NewAggregator(repo store.TournamentRepository, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		repo:   repo,
		logger: logger.With("component", "tournament"),
		boards: make(map[uuid.UUID]*board),
		nowFn:  time.Now,
	}
}

// RefreshActive reloads the set of tournaments accepting scores and
// promotes UPCOMING tournaments whose start time has passed.
func (a *Aggregator) RefreshActive(ctx context.Context) error {
	now := a.nowFn()

	upcoming, err := a.repo.ListByStatus(ctx, model.TournamentUpcoming)
	if err != nil {
		return fmt.Errorf("list upcoming tournaments: %w", err)
	}
	for _, t := range upcoming {
		if now.Before(t.StartTime) {
			continue
		}
		changed, err := a.repo.SetStatus(ctx, t.ID, model.TournamentUpcoming, model.TournamentActive)
		if err != nil {
			return fmt.Errorf("activate tournament %s: %w", t.ID, err)
		}
		if changed {
			a.logger.Info("tournament activated", "tournament", t.ID, "name", t.Name)
		}
	}

	active, err := a.repo.ListByStatus(ctx, model.TournamentActive)
	if err != nil {
		return fmt.Errorf("list active tournaments: %w", err)
	}

	a.mu.Lock()
	a.active = active
	for id := range a.boards {
		found := false
		for _, t := range active {
			if t.ID == id {
				found = true
				break
			}
		}
		if !found {
			delete(a.boards, id)
		}
	}
	a.mu.Unlock()
	return nil
}

// RouteScoreTx adds delta to every active tournament covering chain,
// inside the caller's transaction. The in-memory board update is
// best-effort and happens regardless of the eventual commit.
func (a *Aggregator) RouteScoreTx(ctx context.Context, tx *sql.Tx, chain model.Chain, subject string, delta int64, at time.Time) error {
	a.mu.RLock()
	targets := make([]model.Tournament, 0, len(a.active))
	for _, t := range a.active {
		if t.InScope(chain) && t.AcceptsScores(at) {
			targets = append(targets, t)
		}
	}
	a.mu.RUnlock()

	for _, t := range targets {
		if err := a.repo.AddScoreTx(ctx, tx, t.ID, subject, delta, at); err != nil {
			return fmt.Errorf("add score to tournament %s: %w", t.ID, err)
		}
		a.bumpBoard(t.ID, subject, delta, at)
		metrics.TournamentScoreUpdatesTotal.WithLabelValues(t.ID.String()).Inc()
	}
	return nil
}

func (a *Aggregator) bumpBoard(id uuid.UUID, subject string, delta int64, at time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b := a.boards[id]
	if b == nil {
		b = &board{bySubj: make(map[string]int)}
		a.boards[id] = b
	}
	if i, ok := b.bySubj[subject]; ok {
		b.entries[i].Score += delta
		b.entries[i].UpdatedAt = at
	} else {
		b.entries = append(b.entries, model.TournamentScore{
			TournamentID: id,
			Subject:      subject,
			Score:        delta,
			UpdatedAt:    at,
		})
	}
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].Score > b.entries[j].Score
	})
	if len(b.entries) > LeaderboardSize {
		b.entries = b.entries[:LeaderboardSize]
	}
	for i := range b.entries {
		b.bySubj[b.entries[i].Subject] = i
	}
	// Rebuild the index map when entries fell off the tail.
	for subj, i := range b.bySubj {
		if i >= len(b.entries) || b.entries[i].Subject != subj {
			delete(b.bySubj, subj)
		}
	}
}

// Leaderboard returns the cached top entries for a tournament, best
// first. It may trail the store by in-flight transactions.
func (a *Aggregator) Leaderboard(id uuid.UUID, limit int) []model.TournamentScore {
	a.mu.RLock()
	defer a.mu.RUnlock()
	b := a.boards[id]
	if b == nil {
		return nil
	}
	if limit <= 0 || limit > len(b.entries) {
		limit = len(b.entries)
	}
	out := make([]model.TournamentScore, limit)
	copy(out, b.entries[:limit])
	return out
}

// Active returns the tournaments currently accepting scores.
func (a *Aggregator) Active() []model.Tournament {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]model.Tournament, len(a.active))
	copy(out, a.active)
	return out
}
