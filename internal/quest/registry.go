package quest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RednibCoding/mudden/internal/logger"
	"github.com/RednibCoding/mudden/internal/npc"
)

// Registry indexes all loaded quests.
type Registry struct {
	quests map[string]*Quest
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{quests: make(map[string]*Quest)}
}

// Add registers a quest.
func (r *Registry) Add(q *Quest) {
	r.quests[q.ID] = q
}

// Get returns a quest by ID, or nil.
func (r *Registry) Get(id string) *Quest {
	return r.quests[id]
}

// All returns every quest sorted by required level, then name.
func (r *Registry) All() []*Quest {
	out := make([]*Quest, 0, len(r.quests))
	for _, q := range r.quests {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequiredLevel != out[j].RequiredLevel {
			return out[i].RequiredLevel < out[j].RequiredLevel
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Count returns the number of registered quests.
func (r *Registry) Count() int {
	return len(r.quests)
}

// LinkNPCs walks the NPC set and attaches each quest's offering NPC. A quest
// with no offering NPC is unreachable and warns; more than one offering NPC
// is a content error and aborts the load.
func (r *Registry) LinkNPCs(npcs map[string]*npc.NPC) error {
	for _, q := range r.quests {
		var offeredBy []string
		for _, n := range npcs {
			if n.Quest == q.ID {
				offeredBy = append(offeredBy, n.ID)
			}
		}
		switch len(offeredBy) {
		case 0:
			logger.Warning("Quest has no offering NPC", "quest", q.ID)
		case 1:
			q.NPC = offeredBy[0]
		default:
			sort.Strings(offeredBy)
			return fmt.Errorf("quest %s offered by multiple NPCs: %s", q.ID, strings.Join(offeredBy, ", "))
		}
	}
	return nil
}

// LoadDir reads every *.json quest in dir into a registry. The file stem must
// equal the quest's id.
func LoadDir(dir string) (*Registry, error) {
	registry := NewRegistry()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read quests dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read quest %s: %w", stem, err)
		}
		var q Quest
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("failed to parse quest %s: %w", stem, err)
		}
		if q.ID != "" && q.ID != stem {
			return nil, fmt.Errorf("quest file %s declares mismatched id %q", entry.Name(), q.ID)
		}
		q.ID = stem

		if err := q.Validate(); err != nil {
			return nil, err
		}
		registry.Add(&q)
	}
	return registry, nil
}
