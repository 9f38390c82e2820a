package reward

// Pure reward and XP arithmetic. Everything in this package is
// deterministic integer math: the same inputs always produce the same
// grant, which is what makes replay and cross-node reconciliation safe.

const (
	// DefaultAmountMultiplierCap bounds the amount multiplier at 5x the
	// base reward (percent scale).
	DefaultAmountMultiplierCap = 500

	// EngagementNeutral is the engagement multiplier that leaves the
	// reward unchanged (percent scale).
	EngagementNeutral = 100

	difficultyStepPct = 20
	amountStepPct     = 10
)

// Calculator computes rewards, XP and bonuses from event observations.
// The zero value is not usable; construct with New.
type Calculator struct {
	amountCap   int64
	streakRate  int64
	levelUpRate int64
}

type Option func(*Calculator)

// WithAmountCap overrides the amount multiplier ceiling (percent).
func WithAmountCap(cap int64) Option {
	return func(c *Calculator) {
		if cap >= 100 {
			c.amountCap = cap
		}
	}
}

// WithStreakRate sets the per-day flat streak bonus.
func WithStreakRate(rate int64) Option {
	return func(c *Calculator) { c.streakRate = rate }
}

// WithLevelUpRate sets the per-level level-up bonus rate.
func WithLevelUpRate(rate int64) Option {
	return func(c *Calculator) { c.levelUpRate = rate }
}

func New(opts ...Option) *Calculator {
	c := &Calculator{
		amountCap:   DefaultAmountMultiplierCap,
		streakRate:  50,
		levelUpRate: 500,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DifficultyMultiplier returns the difficulty scaling in percent:
// difficulty 1 → 120, difficulty 5 → 200. Out-of-range difficulties
// clamp to the valid band.
func DifficultyMultiplier(difficulty int) int64 {
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 5 {
		difficulty = 5
	}
	return 100 + int64(difficulty)*difficultyStepPct
}

// AmountMultiplier returns the overshoot scaling in percent: 10 percent
// extra for every multiple of minAmount the observed amount carries,
// capped. A definition with no amount threshold scales nothing.
func (c *Calculator) AmountMultiplier(observed, minAmount int64) int64 {
	if minAmount <= 0 || observed <= 0 {
		return 100
	}
	mult := 100 + observed*amountStepPct/minAmount
	if mult > c.amountCap {
		mult = c.amountCap
	}
	return mult
}

// QuestReward computes the fungible reward for one quest completion:
//
//	base x difficulty multiplier x amount multiplier x engagement
//
// with all multipliers on a percent scale. engagement of 100 is
// neutral; 0 or negative values are treated as neutral.
func (c *Calculator) QuestReward(base int64, difficulty int, observed, minAmount int64, engagement int64) int64 {
	if base <= 0 {
		return 0
	}
	if engagement <= 0 {
		engagement = EngagementNeutral
	}
	r := base * DifficultyMultiplier(difficulty) / 100
	r = r * c.AmountMultiplier(observed, minAmount) / 100
	r = r * engagement / 100
	return r
}

// AchievementReward scales the achievement's base reward by difficulty
// and rarity: rare unlocks pay up to double.
func (c *Calculator) AchievementReward(base int64, difficulty int, rarityScore int64) int64 {
	if base <= 0 {
		return 0
	}
	if rarityScore < 0 {
		rarityScore = 0
	}
	if rarityScore > 100 {
		rarityScore = 100
	}
	r := base * DifficultyMultiplier(difficulty) / 100
	return r * (100 + rarityScore) / 100
}

// BaseXP is the XP floor for a completion of the given difficulty.
func BaseXP(difficulty int) int64 {
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 5 {
		difficulty = 5
	}
	return int64(difficulty) * 100
}

// ScoreMilestoneXP returns the one-shot bonus for crossing a score
// milestone in a single event.
func ScoreMilestoneXP(score int64) int64 {
	switch {
	case score >= 50_000:
		return 500
	case score >= 25_000:
		return 250
	case score >= 10_000:
		return 100
	default:
		return 0
	}
}

// EventXP computes the XP for one qualifying event: the difficulty
// floor, plus any score milestone, plus half the floor again when the
// event set a personal best.
func (c *Calculator) EventXP(difficulty int, score int64, personalBest bool) int64 {
	xp := BaseXP(difficulty) + ScoreMilestoneXP(score)
	if personalBest {
		xp += BaseXP(difficulty) / 2
	}
	return xp
}

// StreakBonus returns the fungible bonus owed when a streak advances to
// streakDays: a flat per-day rate plus fixed milestone bonuses at the
// 7 and 30 day marks.
func (c *Calculator) StreakBonus(streakDays int) int64 {
	if streakDays <= 0 {
		return 0
	}
	bonus := int64(streakDays) * c.streakRate
	switch streakDays {
	case 7:
		bonus += 250
	case 30:
		bonus += 1500
	}
	return bonus
}

// LevelUpBonus returns the fungible bonus for reaching newLevel.
func (c *Calculator) LevelUpBonus(newLevel int) int64 {
	if newLevel <= 1 {
		return 0
	}
	return int64(newLevel) * c.levelUpRate
}
