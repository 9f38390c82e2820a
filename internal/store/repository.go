package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/questforge/progression-engine/internal/domain/model"
)

// TxBeginner abstracts the ability to begin a database transaction.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// FingerprintRepository records processed-event identifiers. The
// conditional insert in RecordTx is the pipeline's primary correctness
// mechanism: two concurrent deliveries of the same fingerprint cannot
// both observe "not seen".
type FingerprintRepository interface {
	// RecordTx inserts the fingerprint if absent. It returns true on
	// first sight and false for a duplicate.
	RecordTx(ctx context.Context, tx *sql.Tx, fingerprint string, chain model.Chain, heightBucket int64) (bool, error)
	Seen(ctx context.Context, fingerprint string) (bool, error)
	// PruneBuckets removes fingerprints in buckets older than
	// beforeBucket, returning the number pruned. Callers own the
	// retention policy; idempotency holds within the retained window.
	PruneBuckets(ctx context.Context, chain model.Chain, beforeBucket int64) (int64, error)
}

// ClaimResult describes the outcome of claiming one quest completion
// slot.
type ClaimResult struct {
	Claimed   bool // a slot was taken
	Exhausted bool // this claim consumed the last slot
}

// QuestRepository provides access to quest definitions.
type QuestRepository interface {
	GetActive(ctx context.Context) ([]model.QuestDefinition, error)
	Get(ctx context.Context, id uuid.UUID) (*model.QuestDefinition, error)
	Insert(ctx context.Context, q *model.QuestDefinition) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// ClaimCompletionTx atomically increments completion_count while it
	// is below max_completions, deactivating the definition when the
	// last slot is consumed.
	ClaimCompletionTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) (ClaimResult, error)
	CountActiveByOrigin(ctx context.Context, origin model.DefinitionOrigin) (int64, error)
}

// CompletionRepository tracks per-(subject, quest) completions.
type CompletionRepository interface {
	// InsertTx records a completion; returns false when the subject has
	// already completed the quest.
	InsertTx(ctx context.Context, tx *sql.Tx, subject string, questID uuid.UUID, reward, xp int64, fingerprint string, at time.Time) (bool, error)
	CompletedSet(ctx context.Context, subject string, questIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	ListBySubject(ctx context.Context, subject string) ([]uuid.UUID, error)
}

// StepResult describes one achievement accumulation step.
type StepResult struct {
	Progress        int64
	Unlocked        bool // this step crossed the threshold
	AlreadyUnlocked bool // no step taken: subject already unlocked it
}

// AchievementRepository provides access to achievement definitions and
// per-subject progress.
type AchievementRepository interface {
	GetActive(ctx context.Context) ([]model.AchievementDefinition, error)
	Get(ctx context.Context, id uuid.UUID) (*model.AchievementDefinition, error)
	Insert(ctx context.Context, a *model.AchievementDefinition) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// StepTx accumulates exactly one unit of progress for (subject, id)
	// and reports whether required was crossed.
	StepTx(ctx context.Context, tx *sql.Tx, subject string, id uuid.UUID, required int64, at time.Time) (StepResult, error)
	IncrementUnlockCountTx(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
	GetProgress(ctx context.Context, subject string, id uuid.UUID) (*model.AchievementProgress, error)
}

// ProgressionRepository provides access to per-player progression state.
type ProgressionRepository interface {
	// GetForUpdateTx loads the row with a row lock, returning nil for a
	// first-seen subject.
	GetForUpdateTx(ctx context.Context, tx *sql.Tx, subject string) (*model.PlayerProgression, error)
	Get(ctx context.Context, subject string) (*model.PlayerProgression, error)
	UpsertTx(ctx context.Context, tx *sql.Tx, p *model.PlayerProgression) error
	CountPlayers(ctx context.Context) (int64, error)
}

// TournamentRepository provides access to tournaments, scores, and
// payouts.
type TournamentRepository interface {
	Insert(ctx context.Context, t *model.Tournament) error
	Get(ctx context.Context, id uuid.UUID) (*model.Tournament, error)
	ListByStatus(ctx context.Context, status model.TournamentStatus) ([]model.Tournament, error)
	SetStatus(ctx context.Context, id uuid.UUID, from, to model.TournamentStatus) (bool, error)
	AddScoreTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, subject string, delta int64, at time.Time) error
	TopScores(ctx context.Context, id uuid.UUID, limit int) ([]model.TournamentScore, error)
	CountParticipants(ctx context.Context, id uuid.UUID) (int64, error)
	// MarkCompletedTx transitions ACTIVE → COMPLETED; returns false if
	// the tournament was not ACTIVE (settle-once guard).
	MarkCompletedTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, settledAt time.Time) (bool, error)
	InsertPayoutsTx(ctx context.Context, tx *sql.Tx, payouts []model.TournamentPayout) error
	Payouts(ctx context.Context, id uuid.UUID) ([]model.TournamentPayout, error)
}

// OutboxRepository is the durable reward-issuance queue. Grants are
// enqueued in the same transaction that commits progression state, so
// an issuance is never lost even when the downstream call fails.
type OutboxRepository interface {
	EnqueueTx(ctx context.Context, tx *sql.Tx, grant *model.RewardGrant) error
	Enqueue(ctx context.Context, grant *model.RewardGrant) error
	// ClaimPending returns up to limit pending grants, oldest first.
	ClaimPending(ctx context.Context, limit int) ([]model.RewardGrant, error)
	MarkDispatched(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, deadLetter bool) error
	CountPending(ctx context.Context) (int64, error)
}
