package progression

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/questforge/progression-engine/internal/domain/event"
	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/engine/dedup"
	"github.com/questforge/progression-engine/internal/engine/matcher"
	"github.com/questforge/progression-engine/internal/engine/retry"
	"github.com/questforge/progression-engine/internal/engine/reward"
	"github.com/questforge/progression-engine/internal/metrics"
	"github.com/questforge/progression-engine/internal/store"
)

// ScoreRouter routes a qualifying score delta into whatever tournaments
// cover the chain. Implemented by the tournament aggregator; nil
// disables routing.
type ScoreRouter interface {
	RouteScoreTx(ctx context.Context, tx *sql.Tx, chain model.Chain, subject string, delta int64, at time.Time) error
}

// Applier owns the per-event transaction: fingerprint, matched quest
// claims, achievement steps, progression mutation, and outbox grants
// all commit or roll back together. Reward issuance never happens here;
// grants go to the outbox and the dispatcher carries them out-of-band.
type Applier struct {
	db           store.TxBeginner
	deduper      *dedup.Deduper
	matcher      *matcher.Matcher
	calc         *reward.Calculator
	quests       store.QuestRepository
	completions  store.CompletionRepository
	achievements store.AchievementRepository
	progressions store.ProgressionRepository
	outbox       store.OutboxRepository
	scores       ScoreRouter
	logger       *slog.Logger

	engagement       int64
	retryMaxAttempts int
	retryInitial     time.Duration
	retryMax         time.Duration

	nowFn func() time.Time
}

type Option func(*Applier)

// WithEngagement sets the externally supplied engagement multiplier in
// percent; 100 is neutral.
func WithEngagement(pct int64) Option {
	return func(a *Applier) {
		if pct > 0 {
			a.engagement = pct
		}
	}
}

func WithRetry(maxAttempts int, initial, max time.Duration) Option {
	return func(a *Applier) {
		a.retryMaxAttempts = maxAttempts
		a.retryInitial = initial
		a.retryMax = max
	}
}

func WithScoreRouter(r ScoreRouter) Option {
	return func(a *Applier) { a.scores = r }
}

func WithNowFunc(fn func() time.Time) Option {
	return func(a *Applier) { a.nowFn = fn }
}

func New(
	db store.TxBeginner,
	deduper *dedup.Deduper,
	m *matcher.Matcher,
	calc *reward.Calculator,
	quests store.QuestRepository,
	completions store.CompletionRepository,
	achievements store.AchievementRepository,
	progressions store.ProgressionRepository,
	outbox store.OutboxRepository,
	logger *slog.Logger,
	opts ...Option,
) *Applier {
	a := &Applier{
		db:               db,
		deduper:          deduper,
		matcher:          m,
		calc:             calc,
		quests:           quests,
		completions:      completions,
		achievements:     achievements,
		progressions:     progressions,
		outbox:           outbox,
		logger:           logger.With("component", "applier"),
		engagement:       reward.EngagementNeutral,
		retryMaxAttempts: 3,
		retryInitial:     100 * time.Millisecond,
		retryMax:         time.Second,
		nowFn:            time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ApplyWithRetry runs Apply, retrying transient failures (deadlocks,
// serialization conflicts, connection drops) with backoff. Terminal
// failures surface immediately.
func (a *Applier) ApplyWithRetry(ctx context.Context, ev *event.Classified) (*event.Outcome, error) {
	var lastErr error
	for attempt := 1; attempt <= a.retryMaxAttempts; attempt++ {
		outcome, err := a.Apply(ctx, ev)
		if err == nil {
			return outcome, nil
		}
		lastErr = err

		decision := retry.Classify(err)
		if !decision.IsTransient() {
			return nil, err
		}
		if attempt == a.retryMaxAttempts {
			break
		}
		delay := retry.Delay(attempt, a.retryInitial, a.retryMax)
		a.logger.Warn("apply failed, retrying",
			"fingerprint", ev.Fingerprint,
			"attempt", attempt,
			"delay", delay,
			"error", err)
		if err := retry.Sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	metrics.ApplierErrorsTotal.WithLabelValues(ev.Notification.Chain.String()).Inc()
	return nil, fmt.Errorf("apply after %d attempts: %w", a.retryMaxAttempts, lastErr)
}

// Apply processes one classified event end to end. A duplicate returns
// an Outcome with the duplicate drop reason and no error.
func (a *Applier) Apply(ctx context.Context, ev *event.Classified) (*event.Outcome, error) {
	now := a.nowFn()
	n := ev.Notification
	outcome := &event.Outcome{
		Fingerprint: ev.Fingerprint,
		Subject:     n.Subject,
	}

	if a.deduper.SeenRecently(ev.Fingerprint, n.Chain) {
		outcome.Drop = event.DropDuplicate
		return outcome, nil
	}

	// Matching is read-only and runs outside the transaction; appliers
	// are sharded by subject, so per-subject state cannot move under us.
	match, err := a.matcher.Evaluate(ctx, ev, now)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin apply tx: %w", err)
	}
	defer tx.Rollback()

	fresh, err := a.deduper.RecordTx(ctx, tx, ev.Fingerprint, n.Chain, n.BlockHeight)
	if err != nil {
		return nil, err
	}
	if !fresh {
		outcome.Drop = event.DropDuplicate
		a.deduper.MarkSeen(ev.Fingerprint)
		return outcome, nil
	}

	prog, err := a.progressions.GetForUpdateTx(ctx, tx, n.Subject)
	if err != nil {
		return nil, fmt.Errorf("load progression: %w", err)
	}
	if prog == nil {
		prog = model.NewPlayerProgression(n.Subject, now)
	}
	outcome.LevelBefore = prog.Level

	streakBefore := prog.Streak
	newStreak := model.NextStreak(prog.Streak, prog.LastActivityAt, now)
	personalBest := ev.Decoded.Score > 0 && ev.Decoded.Score > prog.BestScore

	var xpGained, rewardsEarned int64

	// Quest completions. Each candidate is claimed and recorded
	// independently: a capacity miss on one never blocks the others.
	pb := personalBest
	for i := range match.Quests {
		q := &match.Quests[i]

		claim, err := a.quests.ClaimCompletionTx(ctx, tx, q.ID)
		if err != nil {
			return nil, fmt.Errorf("claim quest %s: %w", q.ID, err)
		}
		if !claim.Claimed {
			// Capacity exhausted between catalog refreshes.
			a.logger.Debug("quest capacity exhausted", "quest", q.ID, "subject", n.Subject)
			continue
		}

		questReward := a.calc.QuestReward(q.BaseReward, q.Difficulty, ev.Decoded.Magnitude, q.MinAmount, a.engagement)
		questXP := a.calc.EventXP(q.Difficulty, ev.Decoded.Score, pb)
		pb = false // the personal-best bonus applies once per event

		inserted, err := a.completions.InsertTx(ctx, tx, n.Subject, q.ID, questReward, questXP, ev.Fingerprint, now)
		if err != nil {
			return nil, fmt.Errorf("record completion %s: %w", q.ID, err)
		}
		if !inserted {
			a.logger.Warn("completion already recorded after claim", "quest", q.ID, "subject", n.Subject)
			continue
		}

		if err := a.enqueueGrant(ctx, tx, n.Subject, model.RewardFungible, questReward, "", model.GrantSourceQuest, q.ID.String(), now); err != nil {
			return nil, err
		}
		if q.BonusNFTRef != "" {
			if err := a.enqueueGrant(ctx, tx, n.Subject, model.RewardCollectible, 0, q.BonusNFTRef, model.GrantSourceQuest, q.ID.String(), now); err != nil {
				return nil, err
			}
		}

		xpGained += questXP
		rewardsEarned += questReward
		outcome.Completions = append(outcome.Completions, event.QuestCompletion{
			QuestID: q.ID,
			Reward:  questReward,
			XP:      questXP,
		})
		metrics.ApplierCompletionsTotal.WithLabelValues(n.Chain.String(), q.Category.String()).Inc()

		if claim.Exhausted {
			a.logger.Info("quest consumed its last completion slot, deactivated", "quest", q.ID)
		}
	}

	// Achievement steps: one unit of progress per event per definition.
	var population int64 = -1
	for i := range match.Achievements {
		def := &match.Achievements[i]

		step, err := a.achievements.StepTx(ctx, tx, n.Subject, def.ID, def.RequiredCount, now)
		if err != nil {
			return nil, fmt.Errorf("step achievement %s: %w", def.ID, err)
		}
		if step.AlreadyUnlocked {
			continue
		}

		as := event.AchievementStep{
			AchievementID: def.ID,
			Progress:      step.Progress,
			Unlocked:      step.Unlocked,
		}

		if step.Unlocked {
			if err := a.achievements.IncrementUnlockCountTx(ctx, tx, def.ID); err != nil {
				return nil, fmt.Errorf("count unlock %s: %w", def.ID, err)
			}
			if population < 0 {
				if population, err = a.progressions.CountPlayers(ctx); err != nil {
					return nil, fmt.Errorf("count players: %w", err)
				}
			}
			as.Reward = a.calc.AchievementReward(def.BaseReward, def.Difficulty, def.RarityScore(population))
			as.XP = reward.BaseXP(def.Difficulty)

			if err := a.enqueueGrant(ctx, tx, n.Subject, model.RewardFungible, as.Reward, "", model.GrantSourceAchievement, def.ID.String(), now); err != nil {
				return nil, err
			}
			if def.BonusNFTRef != "" {
				if err := a.enqueueGrant(ctx, tx, n.Subject, model.RewardCollectible, 0, def.BonusNFTRef, model.GrantSourceAchievement, def.ID.String(), now); err != nil {
					return nil, err
				}
			}
			xpGained += as.XP
			rewardsEarned += as.Reward
			metrics.ApplierAchievementUnlocksTotal.WithLabelValues(n.Chain.String()).Inc()
		}
		outcome.AchievementSteps = append(outcome.AchievementSteps, as)
	}

	// Streak bonus on every advance; resets pay nothing.
	if newStreak > streakBefore {
		bonus := a.calc.StreakBonus(newStreak)
		if bonus > 0 {
			if err := a.enqueueGrant(ctx, tx, n.Subject, model.RewardFungible, bonus, "", model.GrantSourceStreak, fmt.Sprintf("day-%d", newStreak), now); err != nil {
				return nil, err
			}
			rewardsEarned += bonus
		}
	}

	// Progression mutation. XP only ever grows; the leveling loop
	// resolves every threshold a single large award crosses.
	prog.XP += xpGained
	newLevel, gainedLevels := reward.LevelUp(prog.Level, prog.XP)
	for _, lv := range gainedLevels {
		bonus := a.calc.LevelUpBonus(lv)
		if err := a.enqueueGrant(ctx, tx, n.Subject, model.RewardFungible, bonus, "", model.GrantSourceLevelUp, fmt.Sprintf("level-%d", lv), now); err != nil {
			return nil, err
		}
		rewardsEarned += bonus
		metrics.ApplierLevelUpsTotal.WithLabelValues(n.Chain.String()).Inc()
	}
	prog.Level = newLevel
	prog.Streak = newStreak
	prog.LastActivityAt = now
	prog.TotalRewardsEarned += rewardsEarned
	if ev.Decoded.Score > prog.BestScore {
		prog.BestScore = ev.Decoded.Score
	}
	if prog.ChainActivity == nil {
		prog.ChainActivity = make(map[model.Chain]int64)
	}
	prog.ChainActivity[n.Chain]++
	prog.ChurnRiskScore = model.ChurnRisk(now, now, newStreak)
	prog.UpdatedAt = now

	if err := a.progressions.UpsertTx(ctx, tx, prog); err != nil {
		return nil, fmt.Errorf("upsert progression: %w", err)
	}

	// Tournament scores ride the same transaction, so a settled board
	// never sees a score from a rolled-back event.
	if a.scores != nil && ev.Decoded.Score > 0 {
		if err := a.scores.RouteScoreTx(ctx, tx, n.Chain, n.Subject, ev.Decoded.Score, now); err != nil {
			return nil, fmt.Errorf("route tournament score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit apply tx: %w", err)
	}
	a.deduper.MarkSeen(ev.Fingerprint)

	if xpGained > 0 {
		metrics.ApplierXPGrantedTotal.WithLabelValues(n.Chain.String()).Add(float64(xpGained))
	}
	metrics.ApplierLatency.WithLabelValues(n.Chain.String()).Observe(time.Since(start).Seconds())

	outcome.XPGained = xpGained
	outcome.LevelAfter = prog.Level
	outcome.Streak = prog.Streak
	return outcome, nil
}

func (a *Applier) enqueueGrant(ctx context.Context, tx *sql.Tx, recipient string, kind model.RewardKind, amount int64, collectibleRef string, source model.GrantSource, sourceRef string, now time.Time) error {
	grant := &model.RewardGrant{
		ID:             uuid.New(),
		Recipient:      recipient,
		Kind:           kind,
		Amount:         amount,
		CollectibleRef: collectibleRef,
		Source:         source,
		SourceRef:      sourceRef,
		Status:         model.GrantPending,
		CreatedAt:      now,
	}
	if err := a.outbox.EnqueueTx(ctx, tx, grant); err != nil {
		return fmt.Errorf("enqueue %s grant: %w", source, err)
	}
	metrics.OutboxEnqueuedTotal.WithLabelValues(string(kind), string(source)).Inc()
	return nil
}
