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

type QuestRepo struct {
	db *DB
}

func NewQuestRepo(db *DB) *QuestRepo {
	return &QuestRepo{db: db}
}

const questColumns = `
	id, name, category, target_emitter, min_amount, chain_scope,
	base_reward, bonus_nft_ref, difficulty, max_completions,
	completion_count, window_start, window_end, is_active, origin,
	created_at, updated_at`

func scanQuest(row interface{ Scan(...any) error }) (*model.QuestDefinition, error) {
	var q model.QuestDefinition
	var windowEnd sql.NullTime
	err := row.Scan(
		&q.ID, &q.Name, &q.Category, &q.TargetEmitter, &q.MinAmount, &q.ChainScope,
		&q.BaseReward, &q.BonusNFTRef, &q.Difficulty, &q.MaxCompletions,
		&q.CompletionCount, &q.WindowStart, &windowEnd, &q.IsActive, &q.Origin,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if windowEnd.Valid {
		q.WindowEnd = windowEnd.Time
	}
	return &q, nil
}

func (r *QuestRepo) GetActive(ctx context.Context) ([]model.QuestDefinition, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+questColumns+`
		FROM quest_definitions
		WHERE is_active = true
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("get active quests: %w", err)
	}
	defer rows.Close()

	var quests []model.QuestDefinition
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quest: %w", err)
		}
		quests = append(quests, *q)
	}
	return quests, rows.Err()
}

func (r *QuestRepo) Get(ctx context.Context, id uuid.UUID) (*model.QuestDefinition, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	q, err := scanQuest(r.db.QueryRowContext(ctx, `
		SELECT `+questColumns+`
		FROM quest_definitions
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quest: %w", err)
	}
	return q, nil
}

func (r *QuestRepo) Insert(ctx context.Context, q *model.QuestDefinition) error {
	var windowEnd *time.Time
	if !q.WindowEnd.IsZero() {
		windowEnd = &q.WindowEnd
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quest_definitions (
			id, name, category, target_emitter, min_amount, chain_scope,
			base_reward, bonus_nft_ref, difficulty, max_completions,
			window_start, window_end, is_active, origin
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, q.ID, q.Name, q.Category, q.TargetEmitter, q.MinAmount, q.ChainScope,
		q.BaseReward, q.BonusNFTRef, q.Difficulty, q.MaxCompletions,
		q.WindowStart, windowEnd, q.IsActive, q.Origin)
	if err != nil {
		return fmt.Errorf("insert quest: %w", err)
	}
	return nil
}

func (r *QuestRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE quest_definitions
		SET is_active = $2, updated_at = now()
		WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("set quest active: %w", err)
	}
	return nil
}

// ClaimCompletionTx takes one completion slot if any remain. The WHERE
// clause is the capacity guard: once completion_count reaches
// max_completions no row matches and the claim fails. A definition with
// max_completions = 0 is uncapped.
func (r *QuestRepo) ClaimCompletionTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) (store.ClaimResult, error) {
	var count, max int64
	err := tx.QueryRowContext(ctx, `
		UPDATE quest_definitions
		SET completion_count = completion_count + 1, updated_at = now()
		WHERE id = $1
		  AND is_active = true
		  AND (max_completions = 0 OR completion_count < max_completions)
		RETURNING completion_count, max_completions
	`, id).Scan(&count, &max)
	if err == sql.ErrNoRows {
		return store.ClaimResult{}, nil
	}
	if err != nil {
		return store.ClaimResult{}, fmt.Errorf("claim quest completion: %w", err)
	}

	result := store.ClaimResult{Claimed: true, Exhausted: max > 0 && count >= max}
	if result.Exhausted {
		if _, err := tx.ExecContext(ctx, `
			UPDATE quest_definitions SET is_active = false, updated_at = now() WHERE id = $1
		`, id); err != nil {
			return store.ClaimResult{}, fmt.Errorf("deactivate exhausted quest: %w", err)
		}
	}
	return result, nil
}

func (r *QuestRepo) CountActiveByOrigin(ctx context.Context, origin model.DefinitionOrigin) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM quest_definitions WHERE is_active = true AND origin = $1
	`, origin).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active quests: %w", err)
	}
	return n, nil
}
