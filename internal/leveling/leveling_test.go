package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RednibCoding/mudden/internal/game"
)

func testProgression() game.Progression {
	return game.Progression{
		BaseXpPerLevel: 100,
		XpMultiplier:   1.5,
		MaxLevel:       20,
	}
}

func TestXPForLevel(t *testing.T) {
	p := testProgression()

	assert.Equal(t, 100, XPForLevel(p, 1))
	assert.Equal(t, 150, XPForLevel(p, 2))
	assert.Equal(t, 225, XPForLevel(p, 3))
}

func TestTotalXPNeeded(t *testing.T) {
	p := testProgression()

	assert.Equal(t, 100, TotalXPNeeded(p, 1))
	assert.Equal(t, 250, TotalXPNeeded(p, 2))
	assert.Equal(t, 475, TotalXPNeeded(p, 3))
}

func TestLevelForXP(t *testing.T) {
	p := testProgression()

	tests := []struct {
		name      string
		level, xp int
		want      int
	}{
		{"no xp stays level 1", 1, 0, 1},
		{"just below threshold", 1, 99, 1},
		{"exactly at threshold", 1, 100, 2},
		{"two levels at once", 1, 250, 3},
		{"partial into next level", 2, 260, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForXP(p, tt.level, tt.xp))
		})
	}
}

func TestLevelForXPIdempotent(t *testing.T) {
	p := testProgression()

	level := LevelForXP(p, 1, 250)
	assert.Equal(t, level, LevelForXP(p, level, 250))
	assert.Equal(t, level, LevelForXP(p, level, 250))
}

func TestLevelForXPCapsAtMaxLevel(t *testing.T) {
	p := testProgression()
	p.MaxLevel = 3

	assert.Equal(t, 3, LevelForXP(p, 1, 1_000_000))
}
