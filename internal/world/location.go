// Package world holds the location templates and the mutable runtime state
// built from them: rooms with live enemy instances, ground items, and
// resource nodes.
package world

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Directions is the closed set of exit directions.
var Directions = []string{
	"north", "south", "east", "west", "up", "down",
	"northeast", "northwest", "southeast", "southwest",
}

// ValidDirection reports whether dir is a known exit direction.
func ValidDirection(dir string) bool {
	for _, d := range Directions {
		if d == dir {
			return true
		}
	}
	return false
}

// EnemyPlacement declares an enemy in a location. In JSON it is either a
// plain id string or an object with per-room gating.
type EnemyPlacement struct {
	EnemyID                     string   `json:"enemyId"`
	PrerequisiteActiveQuests    []string `json:"prerequisiteActiveQuests,omitempty"`
	PrerequisiteCompletedQuests []string `json:"prerequisiteCompletedQuests,omitempty"`
	OneTime                     bool     `json:"oneTime,omitempty"`
}

// UnmarshalJSON accepts both "wolf" and {"enemyId": "wolf", ...}.
func (p *EnemyPlacement) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &p.EnemyID)
	}
	type placement EnemyPlacement
	return json.Unmarshal(data, (*placement)(p))
}

// GroundItemDecl declares a preset ground item. In JSON it is either a plain
// id string or an object with respawn and gating fields.
type GroundItemDecl struct {
	ItemID                      string   `json:"itemId"`
	RespawnTime                 int      `json:"respawnTime,omitempty"` // ms; 0 means never respawns
	OneTime                     bool     `json:"oneTime,omitempty"`
	PrerequisiteActiveQuests    []string `json:"prerequisiteActiveQuests,omitempty"`
	PrerequisiteCompletedQuests []string `json:"prerequisiteCompletedQuests,omitempty"`
}

// UnmarshalJSON accepts both "rusty_key" and {"itemId": "rusty_key", ...}.
func (g *GroundItemDecl) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &g.ItemID)
	}
	type decl GroundItemDecl
	return json.Unmarshal(data, (*decl)(g))
}

// ResourceNode declares a harvestable material with a per-player cooldown.
type ResourceNode struct {
	MaterialID string  `json:"materialId"`
	Amount     string  `json:"amount"`   // "min-max"
	Cooldown   int     `json:"cooldown"` // ms
	Chance     float64 `json:"chance"`   // 0..1
}

// Tags mark special room properties.
type Tags struct {
	Homestone  bool `json:"homestone,omitempty"`
	PvPAllowed bool `json:"pvpAllowed,omitempty"`
}

// Location is a location template.
type Location struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Exits       map[string]string `json:"exits"`

	NPCs        []string         `json:"npcs,omitempty"`
	Enemies     []EnemyPlacement `json:"enemies,omitempty"`
	GroundItems []GroundItemDecl `json:"groundItems,omitempty"`
	Shop        string           `json:"shop,omitempty"`
	Resources   []ResourceNode   `json:"resources,omitempty"`
	Tags        Tags             `json:"tags,omitempty"`
}

// Validate checks template consistency after load.
func (l *Location) Validate() error {
	for dir := range l.Exits {
		if !ValidDirection(dir) {
			return fmt.Errorf("location %s: unknown exit direction %q", l.ID, dir)
		}
	}
	for _, node := range l.Resources {
		if node.MaterialID == "" {
			return fmt.Errorf("location %s: resource node missing materialId", l.ID)
		}
		if node.Chance < 0 || node.Chance > 1 {
			return fmt.Errorf("location %s: resource %s chance out of range", l.ID, node.MaterialID)
		}
	}
	return nil
}

// LoadDir reads every *.json location in dir, indexed by ID. The file stem
// must equal the location's id.
func LoadDir(dir string) (map[string]*Location, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations dir: %w", err)
	}

	loaded := make(map[string]*Location, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read location %s: %w", stem, err)
		}
		var loc Location
		if err := json.Unmarshal(data, &loc); err != nil {
			return nil, fmt.Errorf("failed to parse location %s: %w", stem, err)
		}
		if loc.ID != "" && loc.ID != stem {
			return nil, fmt.Errorf("location file %s declares mismatched id %q", entry.Name(), loc.ID)
		}
		loc.ID = stem

		if err := loc.Validate(); err != nil {
			return nil, err
		}
		loaded[stem] = &loc
	}
	return loaded, nil
}
