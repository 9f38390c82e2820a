package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestQuestMatchableAt(t *testing.T) {
	base := QuestDefinition{
		ID:             uuid.New(),
		Category:       CategorySwap,
		ChainScope:     ChainAny,
		IsActive:       true,
		MaxCompletions: 5,
		WindowStart:    day(0),
		WindowEnd:      day(7),
	}

	tests := []struct {
		name   string
		mutate func(q *QuestDefinition)
		at     time.Time
		want   bool
	}{
		{"inside window", func(q *QuestDefinition) {}, day(3), true},
		{"inactive", func(q *QuestDefinition) { q.IsActive = false }, day(3), false},
		{"before window", func(q *QuestDefinition) {}, day(-1), false},
		{"after window", func(q *QuestDefinition) {}, day(8), false},
		{"capacity exhausted", func(q *QuestDefinition) { q.CompletionCount = 5 }, day(3), false},
		{"one slot left", func(q *QuestDefinition) { q.CompletionCount = 4 }, day(3), true},
		{"unbounded capacity", func(q *QuestDefinition) {
			q.MaxCompletions = 0
			q.CompletionCount = 9000
		}, day(3), true},
		{"unbounded window end", func(q *QuestDefinition) { q.WindowEnd = time.Time{} }, day(400), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base
			tt.mutate(&q)
			assert.Equal(t, tt.want, q.MatchableAt(tt.at))
		})
	}
}

func TestQuestExpired(t *testing.T) {
	q := QuestDefinition{WindowEnd: day(7)}
	assert.False(t, q.Expired(day(7)))
	assert.True(t, q.Expired(day(8)))

	unbounded := QuestDefinition{}
	assert.False(t, unbounded.Expired(day(9000)))
}

func TestChainScopeMatches(t *testing.T) {
	assert.True(t, ChainAny.Matches(ChainAvalanche))
	assert.True(t, ChainBase.Matches(ChainBase))
	assert.False(t, ChainBase.Matches(ChainPolygon))
}

func TestAchievementRarityScore(t *testing.T) {
	a := AchievementDefinition{UnlockCount: 25}

	assert.Equal(t, int64(75), a.RarityScore(100))
	assert.Equal(t, int64(100), a.RarityScore(0))

	everyone := AchievementDefinition{UnlockCount: 200}
	assert.Equal(t, int64(0), everyone.RarityScore(100))
}

func TestNotificationFingerprint(t *testing.T) {
	n := Notification{
		Chain:       ChainEthereum,
		Emitter:     "0xAbCd",
		RawCategory: "Transfer",
		Subject:     "0xPlayer",
		BlockHeight: 99,
	}

	// Case and whitespace normalisation on addresses; payload excluded.
	same := n
	same.Emitter = "  0xabcd "
	same.Subject = "0XPLAYER"
	same.Payload = []byte(`{"amount":1}`)
	assert.Equal(t, n.Fingerprint(), same.Fingerprint())

	other := n
	other.BlockHeight = 100
	assert.NotEqual(t, n.Fingerprint(), other.Fingerprint())
}

func TestNotificationValidate(t *testing.T) {
	valid := Notification{
		Chain:       ChainBase,
		RawCategory: "Transfer",
		Subject:     "0xPlayer",
		BlockHeight: 10,
	}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.Chain = "unknown-net"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Subject = "   "
	assert.Error(t, bad.Validate())

	bad = valid
	bad.BlockHeight = -1
	assert.Error(t, bad.Validate())
}
