package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestRewardDeterministic(t *testing.T) {
	calc := New()

	// base 1000, difficulty 3, observed 250 against a 100 minimum:
	// 1000 * 160% * 125% = 2000, every time.
	first := calc.QuestReward(1000, 3, 250, 100, EngagementNeutral)
	require.Equal(t, int64(2000), first)

	for i := 0; i < 100; i++ {
		assert.Equal(t, first, calc.QuestReward(1000, 3, 250, 100, EngagementNeutral))
	}
}

func TestDifficultyMultiplier(t *testing.T) {
	tests := []struct {
		difficulty int
		want       int64
	}{
		{1, 120},
		{2, 140},
		{3, 160},
		{4, 180},
		{5, 200},
		{0, 120},  // clamps low
		{9, 200},  // clamps high
		{-3, 120}, // clamps low
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DifficultyMultiplier(tc.difficulty), "difficulty %d", tc.difficulty)
	}
}

func TestAmountMultiplierCap(t *testing.T) {
	calc := New()

	assert.Equal(t, int64(100), calc.AmountMultiplier(100, 0), "no threshold scales nothing")
	assert.Equal(t, int64(110), calc.AmountMultiplier(100, 100))
	assert.Equal(t, int64(125), calc.AmountMultiplier(250, 100))
	assert.Equal(t, int64(500), calc.AmountMultiplier(100_000, 100), "whale overshoot hits the cap")

	tight := New(WithAmountCap(200))
	assert.Equal(t, int64(200), tight.AmountMultiplier(100_000, 100))
}

func TestQuestRewardEngagement(t *testing.T) {
	calc := New()

	neutral := calc.QuestReward(1000, 1, 0, 0, EngagementNeutral)
	doubled := calc.QuestReward(1000, 1, 0, 0, 200)
	zeroed := calc.QuestReward(1000, 1, 0, 0, 0)

	assert.Equal(t, int64(1200), neutral)
	assert.Equal(t, neutral*2, doubled)
	assert.Equal(t, neutral, zeroed, "non-positive engagement is neutral")
}

func TestQuestRewardZeroBase(t *testing.T) {
	calc := New()
	assert.Zero(t, calc.QuestReward(0, 5, 1000, 1, EngagementNeutral))
}

func TestAchievementRewardRarity(t *testing.T) {
	calc := New()

	common := calc.AchievementReward(1000, 2, 0)
	rare := calc.AchievementReward(1000, 2, 100)

	assert.Equal(t, int64(1400), common)
	assert.Equal(t, common*2, rare, "maximum rarity doubles the payout")
}

func TestEventXP(t *testing.T) {
	calc := New()

	assert.Equal(t, int64(300), calc.EventXP(3, 0, false))
	assert.Equal(t, int64(400), calc.EventXP(3, 10_000, false), "10k milestone")
	assert.Equal(t, int64(550), calc.EventXP(3, 25_000, false), "25k milestone")
	assert.Equal(t, int64(800), calc.EventXP(3, 50_000, false), "50k milestone")
	assert.Equal(t, int64(450), calc.EventXP(3, 0, true), "personal best adds half the floor")
	assert.Equal(t, int64(950), calc.EventXP(3, 50_000, true))
}

func TestScoreMilestoneBoundaries(t *testing.T) {
	assert.Zero(t, ScoreMilestoneXP(9_999))
	assert.Equal(t, int64(100), ScoreMilestoneXP(10_000))
	assert.Equal(t, int64(100), ScoreMilestoneXP(24_999))
	assert.Equal(t, int64(250), ScoreMilestoneXP(25_000))
	assert.Equal(t, int64(500), ScoreMilestoneXP(50_000))
	assert.Equal(t, int64(500), ScoreMilestoneXP(1_000_000))
}

func TestStreakBonusMilestones(t *testing.T) {
	calc := New(WithStreakRate(50))

	assert.Zero(t, calc.StreakBonus(0))
	assert.Equal(t, int64(50), calc.StreakBonus(1))
	assert.Equal(t, int64(300), calc.StreakBonus(6))
	assert.Equal(t, int64(600), calc.StreakBonus(7), "7-day milestone pays 250 extra")
	assert.Equal(t, int64(400), calc.StreakBonus(8))
	assert.Equal(t, int64(3000), calc.StreakBonus(30), "30-day milestone pays 1500 extra")
	assert.Equal(t, int64(1550), calc.StreakBonus(31))
}

func TestLevelUpBonus(t *testing.T) {
	calc := New(WithLevelUpRate(500))

	assert.Zero(t, calc.LevelUpBonus(1))
	assert.Equal(t, int64(1000), calc.LevelUpBonus(2))
	assert.Equal(t, int64(5000), calc.LevelUpBonus(10))
}
