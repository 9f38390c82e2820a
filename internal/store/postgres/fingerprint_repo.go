package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/questforge/progression-engine/internal/domain/model"
)

type FingerprintRepo struct {
	db *DB
}

func NewFingerprintRepo(db *DB) *FingerprintRepo {
	return &FingerprintRepo{db: db}
}

// RecordTx is the atomic check-and-record: the conditional insert either
// takes the fingerprint or observes that someone already has. No two
// concurrent deliveries of the same fingerprint can both see inserted.
func (r *FingerprintRepo) RecordTx(ctx context.Context, tx *sql.Tx, fingerprint string, chain model.Chain, heightBucket int64) (bool, error) {
	var inserted bool
	err := tx.QueryRowContext(ctx, `
		INSERT INTO event_fingerprints (fingerprint, chain, height_bucket)
		VALUES ($1, $2, $3)
		ON CONFLICT (fingerprint) DO NOTHING
		RETURNING true
	`, fingerprint, chain, heightBucket).Scan(&inserted)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("record fingerprint: %w", err)
	}
	return inserted, nil
}

func (r *FingerprintRepo) Seen(ctx context.Context, fingerprint string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var seen bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM event_fingerprints WHERE fingerprint = $1)", fingerprint,
	).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("fingerprint seen: %w", err)
	}
	return seen, nil
}

func (r *FingerprintRepo) PruneBuckets(ctx context.Context, chain model.Chain, beforeBucket int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM event_fingerprints
		WHERE chain = $1 AND height_bucket < $2
	`, chain, beforeBucket)
	if err != nil {
		return 0, fmt.Errorf("prune fingerprints: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune fingerprints rows: %w", err)
	}
	return n, nil
}
