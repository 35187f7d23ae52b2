// Package leveling implements the cumulative experience curve.
package leveling

import (
	"math"

	"github.com/RednibCoding/mudden/internal/game"
)

// XPForLevel returns the experience cost of the step from level to level+1.
func XPForLevel(p game.Progression, level int) int {
	return int(math.Floor(float64(p.BaseXpPerLevel) * math.Pow(p.XpMultiplier, float64(level-1))))
}

// TotalXPNeeded returns the cumulative experience required to finish level,
// i.e. to stand at level+1.
func TotalXPNeeded(p game.Progression, level int) int {
	total := 0
	for i := 1; i <= level; i++ {
		total += XPForLevel(p, i)
	}
	return total
}

// LevelForXP returns the level a cumulative experience total corresponds to,
// starting from the given level. Applying it repeatedly after a single XP
// credit is idempotent.
func LevelForXP(p game.Progression, level, xp int) int {
	for level < p.MaxLevel && xp >= TotalXPNeeded(p, level) {
		level++
	}
	return level
}
