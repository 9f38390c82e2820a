package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/questforge/progression-engine/internal/domain/model"
)

type ProgressionRepo struct {
	db *DB
}

func NewProgressionRepo(db *DB) *ProgressionRepo {
	return &ProgressionRepo{db: db}
}

const progressionColumns = `
	subject, xp, level, streak, last_activity_at, total_rewards_earned,
	best_score, chain_activity, churn_risk_score, created_at, updated_at`

func scanProgression(row interface{ Scan(...any) error }) (*model.PlayerProgression, error) {
	var p model.PlayerProgression
	var lastActivity sql.NullTime
	var chainActivity []byte
	err := row.Scan(
		&p.Subject, &p.XP, &p.Level, &p.Streak, &lastActivity, &p.TotalRewardsEarned,
		&p.BestScore, &chainActivity, &p.ChurnRiskScore, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastActivity.Valid {
		p.LastActivityAt = lastActivity.Time
	}
	p.ChainActivity = make(map[model.Chain]int64)
	if len(chainActivity) > 0 {
		if err := json.Unmarshal(chainActivity, &p.ChainActivity); err != nil {
			return nil, fmt.Errorf("decode chain activity: %w", err)
		}
	}
	return &p, nil
}

// GetForUpdateTx loads the player's row under a row lock, serializing
// concurrent mutations of the same player. Returns nil for a subject
// the engine has never seen.
func (r *ProgressionRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, subject string) (*model.PlayerProgression, error) {
	p, err := scanProgression(tx.QueryRowContext(ctx, `
		SELECT `+progressionColumns+`
		FROM player_progression
		WHERE subject = $1
		FOR UPDATE
	`, subject))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progression for update: %w", err)
	}
	return p, nil
}

func (r *ProgressionRepo) Get(ctx context.Context, subject string) (*model.PlayerProgression, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	p, err := scanProgression(r.db.QueryRowContext(ctx, `
		SELECT `+progressionColumns+`
		FROM player_progression
		WHERE subject = $1
	`, subject))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progression: %w", err)
	}
	return p, nil
}

// UpsertTx writes the full progression row. The GREATEST guards keep XP
// and total rewards monotone even if a caller ever hands us a stale
// snapshot.
func (r *ProgressionRepo) UpsertTx(ctx context.Context, tx *sql.Tx, p *model.PlayerProgression) error {
	chainActivity, err := json.Marshal(p.ChainActivity)
	if err != nil {
		return fmt.Errorf("encode chain activity: %w", err)
	}

	var lastActivity *sql.NullTime
	if !p.LastActivityAt.IsZero() {
		lastActivity = &sql.NullTime{Time: p.LastActivityAt, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO player_progression (
			subject, xp, level, streak, last_activity_at, total_rewards_earned,
			best_score, chain_activity, churn_risk_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (subject) DO UPDATE SET
			xp = GREATEST(player_progression.xp, EXCLUDED.xp),
			level = GREATEST(player_progression.level, EXCLUDED.level),
			streak = EXCLUDED.streak,
			last_activity_at = EXCLUDED.last_activity_at,
			total_rewards_earned = GREATEST(player_progression.total_rewards_earned, EXCLUDED.total_rewards_earned),
			best_score = GREATEST(player_progression.best_score, EXCLUDED.best_score),
			chain_activity = EXCLUDED.chain_activity,
			churn_risk_score = EXCLUDED.churn_risk_score,
			updated_at = now()
	`, p.Subject, p.XP, p.Level, p.Streak, lastActivity, p.TotalRewardsEarned,
		p.BestScore, chainActivity, p.ChurnRiskScore)
	if err != nil {
		return fmt.Errorf("upsert progression: %w", err)
	}
	return nil
}

func (r *ProgressionRepo) CountPlayers(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM player_progression").Scan(&n); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}
