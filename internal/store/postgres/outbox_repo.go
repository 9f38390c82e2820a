package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/questforge/progression-engine/internal/domain/model"
)

type OutboxRepo struct {
	db *DB
}

func NewOutboxRepo(db *DB) *OutboxRepo {
	return &OutboxRepo{db: db}
}

const grantColumns = `
	id, recipient, kind, amount, collectible_ref, source, source_ref,
	attempts, status, last_error, created_at, dispatched_at`

func scanGrant(row interface{ Scan(...any) error }) (*model.RewardGrant, error) {
	var g model.RewardGrant
	var dispatchedAt sql.NullTime
	err := row.Scan(
		&g.ID, &g.Recipient, &g.Kind, &g.Amount, &g.CollectibleRef, &g.Source, &g.SourceRef,
		&g.Attempts, &g.Status, &g.LastError, &g.CreatedAt, &dispatchedAt,
	)
	if err != nil {
		return nil, err
	}
	if dispatchedAt.Valid {
		g.DispatchedAt = dispatchedAt.Time
	}
	return &g, nil
}

func (r *OutboxRepo) EnqueueTx(ctx context.Context, tx *sql.Tx, grant *model.RewardGrant) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO reward_outbox (id, recipient, kind, amount, collectible_ref, source, source_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, grant.ID, grant.Recipient, grant.Kind, grant.Amount, grant.CollectibleRef,
		grant.Source, grant.SourceRef, model.GrantPending)
	if err != nil {
		return fmt.Errorf("enqueue grant: %w", err)
	}
	return nil
}

func (r *OutboxRepo) Enqueue(ctx context.Context, grant *model.RewardGrant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reward_outbox (id, recipient, kind, amount, collectible_ref, source, source_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, grant.ID, grant.Recipient, grant.Kind, grant.Amount, grant.CollectibleRef,
		grant.Source, grant.SourceRef, model.GrantPending)
	if err != nil {
		return fmt.Errorf("enqueue grant: %w", err)
	}
	return nil
}

// claimStaleAfter is how long a DISPATCHING row may sit unresolved
// before it is treated as abandoned by a crashed dispatcher and becomes
// claimable again.
const claimStaleAfter = 5 * time.Minute

// ClaimPending atomically claims up to limit grants, oldest first, by
// moving them from PENDING to DISPATCHING. The transition is what makes
// the claim exclusive across replicas: a row another dispatcher already
// flipped no longer matches, and SKIP LOCKED keeps concurrent claimers
// from waiting on each other mid-flip. Stale DISPATCHING rows are
// reclaimed after claimStaleAfter.
func (r *OutboxRepo) ClaimPending(ctx context.Context, limit int) ([]model.RewardGrant, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		WITH claimed AS (
			UPDATE reward_outbox
			SET status = $2, claimed_at = now()
			WHERE id IN (
				SELECT id
				FROM reward_outbox
				WHERE status = $1
				   OR (status = $2 AND claimed_at < now() - $3 * interval '1 second')
				ORDER BY created_at
				LIMIT $4
				FOR UPDATE SKIP LOCKED
			)
			RETURNING `+grantColumns+`
		)
		SELECT `+grantColumns+`
		FROM claimed
		ORDER BY created_at
	`, model.GrantPending, model.GrantDispatching, claimStaleAfter.Seconds(), limit)
	if err != nil {
		return nil, fmt.Errorf("claim pending grants: %w", err)
	}
	defer rows.Close()

	var grants []model.RewardGrant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, *g)
	}
	return grants, rows.Err()
}

func (r *OutboxRepo) MarkDispatched(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reward_outbox
		SET status = $2, dispatched_at = $3, last_error = ''
		WHERE id = $1
	`, id, model.GrantDispatched, at)
	if err != nil {
		return fmt.Errorf("mark grant dispatched: %w", err)
	}
	return nil
}

func (r *OutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, deadLetter bool) error {
	status := model.GrantPending
	if deadLetter {
		status = model.GrantDeadLetter
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE reward_outbox
		SET attempts = attempts + 1, status = $2, last_error = $3
		WHERE id = $1
	`, id, status, lastError)
	if err != nil {
		return fmt.Errorf("mark grant failed: %w", err)
	}
	return nil
}

func (r *OutboxRepo) CountPending(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reward_outbox WHERE status = $1", model.GrantPending,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending grants: %w", err)
	}
	return n, nil
}
