package reward

// Level progression runs in two regimes: a hand-tuned step table for
// levels 1 through 10, then a linear tail of 8000 XP per level. The
// table holds cumulative XP required to reach each level; index i is
// the threshold for level i+1.
var levelThresholds = []int64{
	0,      // level 1
	1_000,  // level 2
	3_000,  // level 3
	6_000,  // level 4
	10_000, // level 5
	16_000, // level 6
	24_000, // level 7
	36_000, // level 8
	50_000, // level 9
	66_000, // level 10
}

const (
	tableMaxLevel = 10
	tailStepXP    = 66_000
	tailStride    = 8_000
)

// LevelForXP maps cumulative XP onto a level. The mapping is total and
// non-decreasing; negative XP clamps to level 1.
func LevelForXP(xp int64) int {
	if xp < 0 {
		return 1
	}
	if xp >= tailStepXP {
		return tableMaxLevel + int((xp-tailStepXP)/tailStride)
	}
	level := 1
	for i, threshold := range levelThresholds {
		if xp < threshold {
			break
		}
		level = i + 1
	}
	return level
}

// ThresholdForLevel returns the cumulative XP required to reach level.
// Levels at or below 1 require nothing.
func ThresholdForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level <= tableMaxLevel {
		return levelThresholds[level-1]
	}
	return tailStepXP + int64(level-tableMaxLevel)*tailStride
}

// LevelUp resolves the levels gained when a player's XP moves from its
// previous value to xp. A single large XP award can cross several
// thresholds; every crossed level is reported in ascending order so
// each one produces its own bonus.
func LevelUp(currentLevel int, xp int64) (newLevel int, gained []int) {
	if currentLevel < 1 {
		currentLevel = 1
	}
	newLevel = currentLevel
	for xp >= ThresholdForLevel(newLevel+1) {
		newLevel++
		gained = append(gained, newLevel)
	}
	return newLevel, gained
}
