// Package enemy defines enemy templates: the immutable stat blocks that
// room-scoped enemy instances are built from.
package enemy

import (
	"fmt"
	"strconv"
	"strings"
)

// MaterialDrop is a chance-gated material reward with an amount range.
type MaterialDrop struct {
	Chance float64 `json:"chance"`
	Amount string  `json:"amount"` // "min-max"
}

// ItemDrop is a chance-gated item reward.
type ItemDrop struct {
	Chance float64 `json:"chance"`
}

// Enemy is an enemy template.
type Enemy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Damage    int `json:"damage"`
	Defense   int `json:"defense"`
	Gold      int `json:"gold"`
	XP        int `json:"xp"`

	MaterialDrops map[string]MaterialDrop `json:"materialDrops,omitempty"`
	ItemDrops     map[string]ItemDrop     `json:"itemDrops,omitempty"`

	// RespawnTime in milliseconds; 0 falls back to the gameplay default.
	RespawnTime int `json:"respawnTime,omitempty"`

	// Quest gating defaults; per-room placements may override.
	PrerequisiteActiveQuests    []string `json:"prerequisiteActiveQuests,omitempty"`
	PrerequisiteCompletedQuests []string `json:"prerequisiteCompletedQuests,omitempty"`
	OneTime                     bool     `json:"oneTime,omitempty"`
}

// Validate checks template consistency after load.
func (e *Enemy) Validate() error {
	if e.MaxHealth <= 0 {
		return fmt.Errorf("enemy %s: maxHealth must be positive", e.ID)
	}
	if e.Health == 0 {
		e.Health = e.MaxHealth
	}
	if e.Health < 0 || e.Health > e.MaxHealth {
		return fmt.Errorf("enemy %s: health out of range", e.ID)
	}
	for id, drop := range e.MaterialDrops {
		if _, _, err := ParseAmountRange(drop.Amount); err != nil {
			return fmt.Errorf("enemy %s: material drop %s: %w", e.ID, id, err)
		}
	}
	return nil
}

// ParseAmountRange parses a "min-max" amount range. A bare number is a fixed
// amount.
func ParseAmountRange(s string) (min, max int, err error) {
	if s == "" {
		return 1, 1, nil
	}
	lo, hi, found := strings.Cut(s, "-")
	min, err = strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("bad amount range %q", s)
	}
	if !found {
		return min, min, nil
	}
	max, err = strconv.Atoi(strings.TrimSpace(hi))
	if err != nil || max < min || min < 0 {
		return 0, 0, fmt.Errorf("bad amount range %q", s)
	}
	return min, max, nil
}
