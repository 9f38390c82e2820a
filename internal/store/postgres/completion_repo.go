package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CompletionRepo struct {
	db *DB
}

func NewCompletionRepo(db *DB) *CompletionRepo {
	return &CompletionRepo{db: db}
}

// InsertTx records a (subject, quest) completion. The primary key makes
// the insert the per-subject idempotency guard: a second completion of
// the same quest id conflicts and reports false.
func (r *CompletionRepo) InsertTx(ctx context.Context, tx *sql.Tx, subject string, questID uuid.UUID, reward, xp int64, fingerprint string, at time.Time) (bool, error) {
	var inserted bool
	err := tx.QueryRowContext(ctx, `
		INSERT INTO quest_completions (subject, quest_id, reward, xp, fingerprint, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subject, quest_id) DO NOTHING
		RETURNING true
	`, subject, questID, reward, xp, fingerprint, at).Scan(&inserted)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert completion: %w", err)
	}
	return inserted, nil
}

func (r *CompletionRepo) CompletedSet(ctx context.Context, subject string, questIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	set := make(map[uuid.UUID]bool, len(questIDs))
	if len(questIDs) == 0 {
		return set, nil
	}

	ids := make([]string, len(questIDs))
	for i, id := range questIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT quest_id FROM quest_completions
		WHERE subject = $1 AND quest_id = ANY($2)
	`, subject, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("completed set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan completed quest id: %w", err)
		}
		set[id] = true
	}
	return set, rows.Err()
}

func (r *CompletionRepo) ListBySubject(ctx context.Context, subject string) ([]uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT quest_id FROM quest_completions
		WHERE subject = $1
		ORDER BY completed_at
	`, subject)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan quest id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
