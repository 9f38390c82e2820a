package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/store"
)

// Catalog holds the in-memory definition index the matcher scans per
// event. It is rebuilt from the definition repositories on a refresh
// interval and swapped atomically under the lock, so the hot path only
// ever takes a read lock.
type Catalog struct {
	quests       store.QuestRepository
	achievements store.AchievementRepository
	logger       *slog.Logger

	mu    sync.RWMutex
	index *index
}

type index struct {
	quests       map[model.EventCategory][]model.QuestDefinition
	achievements map[model.EventCategory][]model.AchievementDefinition
	builtAt      time.Time
}

func NewCatalog(quests store.QuestRepository, achievements store.AchievementRepository, logger *slog.Logger) *Catalog {
	return &Catalog{
		quests:       quests,
		achievements: achievements,
		logger:       logger.With("component", "catalog"),
		index: &index{
			quests:       map[model.EventCategory][]model.QuestDefinition{},
			achievements: map[model.EventCategory][]model.AchievementDefinition{},
		},
	}
}

// Refresh rebuilds the index from the active definitions. Definitions
// whose window has already closed are left out of the index; history
// stays in the store.
func (c *Catalog) Refresh(ctx context.Context) error {
	now := time.Now()

	activeQuests, err := c.quests.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("load active quests: %w", err)
	}
	activeAchievements, err := c.achievements.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("load active achievements: %w", err)
	}

	next := &index{
		quests:       make(map[model.EventCategory][]model.QuestDefinition),
		achievements: make(map[model.EventCategory][]model.AchievementDefinition),
		builtAt:      now,
	}
	var skipped int
	for _, q := range activeQuests {
		if q.Expired(now) {
			skipped++
			continue
		}
		next.quests[q.Category] = append(next.quests[q.Category], q)
	}
	for _, a := range activeAchievements {
		next.achievements[a.Category] = append(next.achievements[a.Category], a)
	}

	c.mu.Lock()
	c.index = next
	c.mu.Unlock()

	c.logger.Debug("catalog refreshed",
		"quests", len(activeQuests)-skipped,
		"achievements", len(activeAchievements),
		"expired_skipped", skipped)
	return nil
}

// RunRefresh refreshes the catalog on the given interval until the
// context is cancelled. The first refresh happens immediately.
func (c *Catalog) RunRefresh(ctx context.Context, interval time.Duration) error {
	if err := c.Refresh(ctx); err != nil {
		c.logger.Error("initial catalog refresh failed", "error", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.logger.Error("catalog refresh failed", "error", err)
			}
		}
	}
}

// QuestCandidates returns indexed quest definitions for the category
// whose chain scope covers chain. Predicate evaluation beyond scope is
// the matcher's job.
func (c *Catalog) QuestCandidates(category model.EventCategory, chain model.Chain) []model.QuestDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.QuestDefinition
	for _, q := range c.index.quests[category] {
		if q.ChainScope.Matches(chain) {
			out = append(out, q)
		}
	}
	return out
}

// AchievementCandidates mirrors QuestCandidates for achievements.
func (c *Catalog) AchievementCandidates(category model.EventCategory, chain model.Chain) []model.AchievementDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.AchievementDefinition
	for _, a := range c.index.achievements[category] {
		if a.ChainScope.Matches(chain) {
			out = append(out, a)
		}
	}
	return out
}

// Size reports the number of indexed definitions.
func (c *Catalog) Size() (quests, achievements int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, qs := range c.index.quests {
		quests += len(qs)
	}
	for _, as := range c.index.achievements {
		achievements += len(as)
	}
	return quests, achievements
}
