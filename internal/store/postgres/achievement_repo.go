package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/store"
)

type AchievementRepo struct {
	db *DB
}

func NewAchievementRepo(db *DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

const achievementColumns = `
	id, name, category, target_emitter, min_amount, chain_scope,
	required_count, base_reward, bonus_nft_ref, difficulty,
	unlock_count, is_active, created_at, updated_at`

func scanAchievement(row interface{ Scan(...any) error }) (*model.AchievementDefinition, error) {
	var a model.AchievementDefinition
	err := row.Scan(
		&a.ID, &a.Name, &a.Category, &a.TargetEmitter, &a.MinAmount, &a.ChainScope,
		&a.RequiredCount, &a.BaseReward, &a.BonusNFTRef, &a.Difficulty,
		&a.UnlockCount, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AchievementRepo) GetActive(ctx context.Context) ([]model.AchievementDefinition, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+achievementColumns+`
		FROM achievement_definitions
		WHERE is_active = true
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("get active achievements: %w", err)
	}
	defer rows.Close()

	var defs []model.AchievementDefinition
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		defs = append(defs, *a)
	}
	return defs, rows.Err()
}

func (r *AchievementRepo) Get(ctx context.Context, id uuid.UUID) (*model.AchievementDefinition, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	a, err := scanAchievement(r.db.QueryRowContext(ctx, `
		SELECT `+achievementColumns+`
		FROM achievement_definitions
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get achievement: %w", err)
	}
	return a, nil
}

func (r *AchievementRepo) Insert(ctx context.Context, a *model.AchievementDefinition) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO achievement_definitions (
			id, name, category, target_emitter, min_amount, chain_scope,
			required_count, base_reward, bonus_nft_ref, difficulty, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, a.ID, a.Name, a.Category, a.TargetEmitter, a.MinAmount, a.ChainScope,
		a.RequiredCount, a.BaseReward, a.BonusNFTRef, a.Difficulty, a.IsActive)
	if err != nil {
		return fmt.Errorf("insert achievement: %w", err)
	}
	return nil
}

func (r *AchievementRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE achievement_definitions
		SET is_active = $2, updated_at = now()
		WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("set achievement active: %w", err)
	}
	return nil
}

// StepTx accumulates one unit of progress for (subject, id). The upsert
// never advances an unlocked row, so at most one step lands per event
// and the threshold crossing fires exactly once.
func (r *AchievementRepo) StepTx(ctx context.Context, tx *sql.Tx, subject string, id uuid.UUID, required int64, at time.Time) (store.StepResult, error) {
	var progress int64
	var unlocked bool
	err := tx.QueryRowContext(ctx, `
		INSERT INTO achievement_progress (subject, achievement_id, progress, unlocked, unlocked_at, updated_at)
		VALUES ($1, $2, 1, 1 >= $3, CASE WHEN 1 >= $3 THEN $4 ELSE NULL END, $4)
		ON CONFLICT (subject, achievement_id) DO UPDATE SET
			progress = achievement_progress.progress + 1,
			unlocked = achievement_progress.progress + 1 >= $3,
			unlocked_at = CASE
				WHEN achievement_progress.progress + 1 >= $3 AND NOT achievement_progress.unlocked THEN $4
				ELSE achievement_progress.unlocked_at
			END,
			updated_at = $4
		WHERE NOT achievement_progress.unlocked
		RETURNING progress, unlocked
	`, subject, id, required, at).Scan(&progress, &unlocked)
	if err == sql.ErrNoRows {
		return store.StepResult{AlreadyUnlocked: true}, nil
	}
	if err != nil {
		return store.StepResult{}, fmt.Errorf("step achievement: %w", err)
	}
	return store.StepResult{Progress: progress, Unlocked: unlocked && progress == required}, nil
}

func (r *AchievementRepo) IncrementUnlockCountTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE achievement_definitions
		SET unlock_count = unlock_count + 1, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("increment unlock count: %w", err)
	}
	return nil
}

func (r *AchievementRepo) GetProgress(ctx context.Context, subject string, id uuid.UUID) (*model.AchievementProgress, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var p model.AchievementProgress
	var unlockedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT subject, achievement_id, progress, unlocked, unlocked_at, updated_at
		FROM achievement_progress
		WHERE subject = $1 AND achievement_id = $2
	`, subject, id).Scan(&p.Subject, &p.AchievementID, &p.Progress, &p.Unlocked, &unlockedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get achievement progress: %w", err)
	}
	if unlockedAt.Valid {
		p.UnlockedAt = unlockedAt.Time
	}
	return &p, nil
}
