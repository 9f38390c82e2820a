package tournament

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/metrics"
	"github.com/questforge/progression-engine/internal/randomness"
	"github.com/questforge/progression-engine/internal/store"
)

// ErrAlreadySettled rejects settlement of a tournament whose status is
// no longer ACTIVE. COMPLETED is terminal.
var ErrAlreadySettled = errors.New("tournament already settled")

// ErrNotFound reports an unknown tournament id.
var ErrNotFound = errors.New("tournament not found")

// prizeCurvePct is the payout share per rank, percent of the pool,
// applied greedily from rank 1 and clamped so the pool is never
// overdrawn.
var prizeCurvePct = []int64{40, 25, 15, 10, 5, 3, 3, 2, 1, 1}

// PrizeAmounts splits pool across up to len(prizeCurvePct) ranks. The
// amounts always sum to exactly pool when at least one rank exists:
// each share is clamped to what remains, and any residue left after the
// last paid rank goes to rank 1.
func PrizeAmounts(pool int64, ranks int) []int64 {
	if pool <= 0 || ranks <= 0 {
		return nil
	}
	if ranks > len(prizeCurvePct) {
		ranks = len(prizeCurvePct)
	}
	amounts := make([]int64, ranks)
	remaining := pool
	for i := 0; i < ranks && remaining > 0; i++ {
		share := pool * prizeCurvePct[i] / 100
		if share > remaining {
			share = remaining
		}
		amounts[i] = share
		remaining -= share
	}
	amounts[0] += remaining
	return amounts
}

// Settler closes tournaments and pays out the prize curve. Settlement
// is settle-once: the ACTIVE → COMPLETED transition is a conditional
// update, and a second attempt fails with ErrAlreadySettled.
type Settler struct {
	agg    *Aggregator
	outbox store.OutboxRepository
	random randomness.Source

	bonusPct int64
}

type SettlerOption func(*Settler)

// WithRaffle enables the random bonus draw over all participants,
// funded with bonusPct percent of the pool on top of the curve.
func WithRaffle(src randomness.Source, bonusPct int64) SettlerOption {
	return func(s *Settler) {
		s.random = src
		s.bonusPct = bonusPct
	}
}

func NewSettler(agg *Aggregator, outbox store.OutboxRepository, opts ...SettlerOption) *Settler {
	s := &Settler{agg: agg, outbox: outbox}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settle ranks the board, writes payouts, enqueues the prize grants,
// and flips the tournament to COMPLETED, all in one transaction.
func (s *Settler) Settle(ctx context.Context, db store.TxBeginner, id uuid.UUID) ([]model.TournamentPayout, error) {
	t, err := s.agg.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load tournament: %w", err)
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if t.Status != model.TournamentActive {
		return nil, fmt.Errorf("%w: status %s", ErrAlreadySettled, t.Status)
	}

	now := time.Now()
	top, err := s.agg.repo.TopScores(ctx, id, LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("rank tournament: %w", err)
	}

	ranks := len(top)
	if ranks > len(prizeCurvePct) {
		ranks = len(prizeCurvePct)
	}
	amounts := PrizeAmounts(t.PrizePool, ranks)

	payouts := make([]model.TournamentPayout, 0, len(amounts))
	for i, amount := range amounts {
		payouts = append(payouts, model.TournamentPayout{
			TournamentID: id,
			Subject:      top[i].Subject,
			Rank:         i + 1,
			Amount:       amount,
		})
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin settle tx: %w", err)
	}
	defer tx.Rollback()

	settled, err := s.agg.repo.MarkCompletedTx(ctx, tx, id, now)
	if err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}
	if !settled {
		return nil, ErrAlreadySettled
	}

	if len(payouts) > 0 {
		if err := s.agg.repo.InsertPayoutsTx(ctx, tx, payouts); err != nil {
			return nil, fmt.Errorf("insert payouts: %w", err)
		}
		for _, p := range payouts {
			if p.Amount <= 0 {
				continue
			}
			grant := &model.RewardGrant{
				ID:        uuid.New(),
				Recipient: p.Subject,
				Kind:      model.RewardFungible,
				Amount:    p.Amount,
				Source:    model.GrantSourceTournament,
				SourceRef: fmt.Sprintf("%s#%d", id, p.Rank),
				Status:    model.GrantPending,
				CreatedAt: now,
			}
			if err := s.outbox.EnqueueTx(ctx, tx, grant); err != nil {
				return nil, fmt.Errorf("enqueue payout grant: %w", err)
			}
			metrics.OutboxEnqueuedTotal.
				WithLabelValues(string(model.RewardFungible), string(model.GrantSourceTournament)).Inc()
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit settle tx: %w", err)
	}
	metrics.TournamentSettlementsTotal.Inc()
	s.agg.logger.Info("tournament settled",
		"tournament", id,
		"participants", len(top),
		"payouts", len(payouts),
		"pool", t.PrizePool)

	// The raffle bonus is drawn out-of-band: the random value arrives
	// via callback and the winner's grant goes straight to the outbox.
	if s.random != nil && s.bonusPct > 0 && len(top) > 0 {
		s.drawRaffle(ctx, t, top, now)
	}
	return payouts, nil
}

func (s *Settler) drawRaffle(ctx context.Context, t *model.Tournament, top []model.TournamentScore, now time.Time) {
	bonus := t.PrizePool * s.bonusPct / 100
	if bonus <= 0 {
		return
	}
	participants := make([]string, len(top))
	for i, sc := range top {
		participants[i] = sc.Subject
	}
	tournamentID := t.ID

	err := s.random.Request(ctx, tournamentID.String(), func(value uint64) {
		winner := participants[value%uint64(len(participants))]
		grant := &model.RewardGrant{
			ID:        uuid.New(),
			Recipient: winner,
			Kind:      model.RewardFungible,
			Amount:    bonus,
			Source:    model.GrantSourceTournament,
			SourceRef: fmt.Sprintf("%s#raffle", tournamentID),
			Status:    model.GrantPending,
			CreatedAt: now,
		}
		if err := s.outbox.Enqueue(context.Background(), grant); err != nil {
			s.agg.logger.Error("raffle grant enqueue failed", "tournament", tournamentID, "error", err)
			return
		}
		s.agg.logger.Info("raffle bonus drawn", "tournament", tournamentID, "winner", winner, "amount", bonus)
	})
	if err != nil {
		s.agg.logger.Error("raffle draw request failed", "tournament", tournamentID, "error", err)
	}
}

// Sweep settles every ACTIVE tournament whose end time has passed.
func (s *Settler) Sweep(ctx context.Context, db store.TxBeginner) error {
	now := time.Now()
	active, err := s.agg.repo.ListByStatus(ctx, model.TournamentActive)
	if err != nil {
		return fmt.Errorf("list active tournaments: %w", err)
	}
	for _, t := range active {
		if now.Before(t.EndTime) {
			continue
		}
		if _, err := s.Settle(ctx, db, t.ID); err != nil && !errors.Is(err, ErrAlreadySettled) {
			s.agg.logger.Error("sweep settlement failed", "tournament", t.ID, "error", err)
		}
	}
	return nil
}

// RunSweep drives Sweep and the active-set refresh on an interval.
func (s *Settler) RunSweep(ctx context.Context, db store.TxBeginner, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.agg.RefreshActive(ctx); err != nil {
				s.agg.logger.Error("active tournament refresh failed", "error", err)
			}
			if err := s.Sweep(ctx, db); err != nil {
				s.agg.logger.Error("tournament sweep failed", "error", err)
			}
		}
	}
}
