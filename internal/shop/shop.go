// Package shop defines shop templates and derived pricing.
package shop

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Shop is a shop template: a named list of purchasable item IDs.
type Shop struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Items []string `json:"items"`

	// BuyMultiplier and SellMultiplier override the economy-wide multipliers
	// when non-zero.
	BuyMultiplier  float64 `json:"buyMultiplier,omitempty"`
	SellMultiplier float64 `json:"sellMultiplier,omitempty"`
}

// Stocks reports whether the shop sells the item.
func (s *Shop) Stocks(itemID string) bool {
	for _, id := range s.Items {
		if id == itemID {
			return true
		}
	}
	return false
}

// BuyPrice derives what a player pays for an item of the given value.
func (s *Shop) BuyPrice(value int, economyMultiplier float64) int {
	mult := economyMultiplier
	if s.BuyMultiplier > 0 {
		mult = s.BuyMultiplier
	}
	return int(math.Ceil(float64(value) * mult))
}

// SellPrice derives what a player receives for an item of the given value.
func (s *Shop) SellPrice(value int, economyMultiplier float64) int {
	mult := economyMultiplier
	if s.SellMultiplier > 0 {
		mult = s.SellMultiplier
	}
	return int(math.Floor(float64(value) * mult))
}

// LoadDir reads every *.json shop in dir, indexed by ID. The file stem must
// equal the shop's id.
func LoadDir(dir string) (map[string]*Shop, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read shops dir: %w", err)
	}

	loaded := make(map[string]*Shop, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read shop %s: %w", stem, err)
		}
		var s Shop
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse shop %s: %w", stem, err)
		}
		if s.ID != "" && s.ID != stem {
			return nil, fmt.Errorf("shop file %s declares mismatched id %q", entry.Name(), s.ID)
		}
		s.ID = stem
		loaded[stem] = &s
	}
	return loaded, nil
}
