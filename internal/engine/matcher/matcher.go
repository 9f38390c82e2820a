package matcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/questforge/progression-engine/internal/domain/event"
	"github.com/questforge/progression-engine/internal/domain/model"
	"github.com/questforge/progression-engine/internal/metrics"
	"github.com/questforge/progression-engine/internal/store"
)

// Matcher evaluates classified events against the catalog. It is
// read-only: claiming completion slots and recording steps belongs to
// the applier's transaction.
type Matcher struct {
	catalog     *Catalog
	completions store.CompletionRepository
}

func New(catalog *Catalog, completions store.CompletionRepository) *Matcher {
	return &Matcher{catalog: catalog, completions: completions}
}

// Match is one event's candidate set after predicate filtering. Every
// entry is independently applicable; a failure claiming one does not
// affect the others.
type Match struct {
	Quests       []model.QuestDefinition
	Achievements []model.AchievementDefinition
	Scanned      int
}

// Empty reports whether nothing matched. This is the normal case for
// most events, not an error.
func (m Match) Empty() bool {
	return len(m.Quests) == 0 && len(m.Achievements) == 0
}

// Evaluate filters catalog candidates down to the definitions the event
// satisfies right now for its subject.
func (m *Matcher) Evaluate(ctx context.Context, ev *event.Classified, now time.Time) (Match, error) {
	n := ev.Notification
	category := ev.Category()

	questCandidates := m.catalog.QuestCandidates(category, n.Chain)
	achievementCandidates := m.catalog.AchievementCandidates(category, n.Chain)

	out := Match{Scanned: len(questCandidates) + len(achievementCandidates)}
	metrics.MatcherCandidatesScanned.
		WithLabelValues(n.Chain.String(), category.String()).
		Observe(float64(out.Scanned))

	var eligible []model.QuestDefinition
	ids := make([]uuid.UUID, 0, len(questCandidates))
	for _, q := range questCandidates {
		if !questSatisfied(&q, ev, now) {
			continue
		}
		eligible = append(eligible, q)
		ids = append(ids, q.ID)
	}

	// Per-subject completions are the one predicate that needs the
	// store; batch it over the surviving candidates.
	if len(eligible) > 0 {
		completed, err := m.completions.CompletedSet(ctx, n.Subject, ids)
		if err != nil {
			return Match{}, fmt.Errorf("load completed set: %w", err)
		}
		for _, q := range eligible {
			if completed[q.ID] {
				continue
			}
			out.Quests = append(out.Quests, q)
		}
	}

	for _, a := range achievementCandidates {
		if !achievementSatisfied(&a, ev) {
			continue
		}
		out.Achievements = append(out.Achievements, a)
	}

	if len(out.Quests) > 0 {
		metrics.MatcherQuestMatchesTotal.
			WithLabelValues(n.Chain.String(), category.String()).
			Add(float64(len(out.Quests)))
	}
	if len(out.Achievements) > 0 {
		metrics.MatcherAchievementStepsTotal.
			WithLabelValues(n.Chain.String(), category.String()).
			Add(float64(len(out.Achievements)))
	}
	return out, nil
}

func questSatisfied(q *model.QuestDefinition, ev *event.Classified, now time.Time) bool {
	if !q.MatchableAt(now) {
		return false
	}
	if !emitterMatches(q.TargetEmitter, ev.Notification.Emitter) {
		return false
	}
	return q.MinAmount <= 0 || ev.Decoded.Magnitude >= q.MinAmount
}

func achievementSatisfied(a *model.AchievementDefinition, ev *event.Classified) bool {
	if !a.IsActive {
		return false
	}
	if !emitterMatches(a.TargetEmitter, ev.Notification.Emitter) {
		return false
	}
	return a.MinAmount <= 0 || ev.Decoded.Magnitude >= a.MinAmount
}

func emitterMatches(target, emitter string) bool {
	return target == "" || strings.EqualFold(target, emitter)
}
