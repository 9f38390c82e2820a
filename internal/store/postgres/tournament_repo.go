package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/questforge/progression-engine/internal/domain/model"
)

type TournamentRepo struct {
	db *DB
}

func NewTournamentRepo(db *DB) *TournamentRepo {
	return &TournamentRepo{db: db}
}

func scanTournament(row interface{ Scan(...any) error }) (*model.Tournament, error) {
	var t model.Tournament
	var scope []string
	var settledAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.Name, pq.Array(&scope), &t.StartTime, &t.EndTime,
		&t.PrizePool, &t.Status, &settledAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, c := range scope {
		t.Scope = append(t.Scope, model.Chain(c))
	}
	if settledAt.Valid {
		t.SettledAt = settledAt.Time
	}
	return &t, nil
}

const tournamentColumns = `id, name, scope, start_time, end_time, prize_pool, status, settled_at, created_at`

func (r *TournamentRepo) Insert(ctx context.Context, t *model.Tournament) error {
	scope := make([]string, len(t.Scope))
	for i, c := range t.Scope {
		scope[i] = c.String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tournaments (id, name, scope, start_time, end_time, prize_pool, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.Name, pq.Array(scope), t.StartTime, t.EndTime, t.PrizePool, t.Status)
	if err != nil {
		return fmt.Errorf("insert tournament: %w", err)
	}
	return nil
}

func (r *TournamentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Tournament, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	t, err := scanTournament(r.db.QueryRowContext(ctx, `
		SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tournament: %w", err)
	}
	return t, nil
}

func (r *TournamentRepo) ListByStatus(ctx context.Context, status model.TournamentStatus) ([]model.Tournament, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+tournamentColumns+` FROM tournaments WHERE status = $1 ORDER BY start_time
	`, status)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []model.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tournament: %w", err)
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

// SetStatus performs a guarded status transition and reports whether
// the row actually moved.
func (r *TournamentRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to model.TournamentStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tournaments SET status = $3 WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, fmt.Errorf("set tournament status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set tournament status rows: %w", err)
	}
	return n == 1, nil
}

func (r *TournamentRepo) AddScoreTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, subject string, delta int64, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tournament_scores (tournament_id, subject, score, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tournament_id, subject) DO UPDATE SET
			score = tournament_scores.score + EXCLUDED.score,
			updated_at = EXCLUDED.updated_at
	`, id, subject, delta, at)
	if err != nil {
		return fmt.Errorf("add tournament score: %w", err)
	}
	return nil
}

func (r *TournamentRepo) TopScores(ctx context.Context, id uuid.UUID, limit int) ([]model.TournamentScore, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT tournament_id, subject, score, updated_at
		FROM tournament_scores
		WHERE tournament_id = $1
		ORDER BY score DESC, updated_at ASC, subject ASC
		LIMIT $2
	`, id, limit)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var scores []model.TournamentScore
	for rows.Next() {
		var s model.TournamentScore
		if err := rows.Scan(&s.TournamentID, &s.Subject, &s.Score, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (r *TournamentRepo) CountParticipants(ctx context.Context, id uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tournament_scores WHERE tournament_id = $1
	`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}

// MarkCompletedTx is the settle-once guard: only an ACTIVE tournament
// transitions, and exactly one caller wins the transition.
func (r *TournamentRepo) MarkCompletedTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, settledAt time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE tournaments
		SET status = $2, settled_at = $3
		WHERE id = $1 AND status = $4
	`, id, model.TournamentCompleted, settledAt, model.TournamentActive)
	if err != nil {
		return false, fmt.Errorf("mark tournament completed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark tournament completed rows: %w", err)
	}
	return n == 1, nil
}

func (r *TournamentRepo) InsertPayoutsTx(ctx context.Context, tx *sql.Tx, payouts []model.TournamentPayout) error {
	for _, p := range payouts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tournament_payouts (tournament_id, subject, rank, amount)
			VALUES ($1, $2, $3, $4)
		`, p.TournamentID, p.Subject, p.Rank, p.Amount); err != nil {
			return fmt.Errorf("insert payout rank %d: %w", p.Rank, err)
		}
	}
	return nil
}

func (r *TournamentRepo) Payouts(ctx context.Context, id uuid.UUID) ([]model.TournamentPayout, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT tournament_id, subject, rank, amount
		FROM tournament_payouts
		WHERE tournament_id = $1
		ORDER BY rank
	`, id)
	if err != nil {
		return nil, fmt.Errorf("payouts: %w", err)
	}
	defer rows.Close()

	var payouts []model.TournamentPayout
	for rows.Next() {
		var p model.TournamentPayout
		if err := rows.Scan(&p.TournamentID, &p.Subject, &p.Rank, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}
