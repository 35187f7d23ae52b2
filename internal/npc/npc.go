// Package npc defines NPC templates: dialogue anchors that may also offer a
// quest, heal for gold, keep portals, or front a shop.
package npc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Portal is a keyword-triggered paid teleport offered by a portal keeper.
type Portal struct {
	Destination string `json:"destination"`
	Cost        int    `json:"cost"`
}

// NPC is an NPC template.
type NPC struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Dialogue string `json:"dialogue"`

	// QuestDialogue is spoken when offering Quest; the quest's own dialogue
	// fields cover progress and completion.
	QuestDialogue string `json:"questDialogue,omitempty"`
	Quest         string `json:"quest,omitempty"`

	Healer  bool              `json:"healer,omitempty"`
	Portals map[string]Portal `json:"portals,omitempty"`
	Shop    string            `json:"shop,omitempty"`
}

// OffersQuest reports whether this NPC offers a quest.
func (n *NPC) OffersQuest() bool { return n.Quest != "" }

// LoadDir reads every *.json NPC in dir, indexed by ID. The file stem must
// equal the NPC's id.
func LoadDir(dir string) (map[string]*NPC, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read npcs dir: %w", err)
	}

	loaded := make(map[string]*NPC, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read npc %s: %w", stem, err)
		}
		var n NPC
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("failed to parse npc %s: %w", stem, err)
		}
		if n.ID != "" && n.ID != stem {
			return nil, fmt.Errorf("npc file %s declares mismatched id %q", entry.Name(), n.ID)
		}
		n.ID = stem
		loaded[stem] = &n
	}
	return loaded, nil
}
