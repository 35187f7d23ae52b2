package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RednibCoding/mudden/internal/catalog"
	"github.com/RednibCoding/mudden/internal/config"
	"github.com/RednibCoding/mudden/internal/crafting"
	"github.com/RednibCoding/mudden/internal/enemy"
	"github.com/RednibCoding/mudden/internal/game"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/npc"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
	"github.com/RednibCoding/mudden/internal/quest"
	"github.com/RednibCoding/mudden/internal/shop"
	"github.com/RednibCoding/mudden/internal/store"
	"github.com/RednibCoding/mudden/internal/world"
)

// recorder captures outbound frames for assertions.
type recorder struct {
	messages []protocol.Message
	frames   []string
}

func (r *recorder) SendMessage(mt protocol.MessageType, text, code string) {
	r.messages = append(r.messages, protocol.Message{Type: mt, Text: text, Code: code})
}

func (r *recorder) SendFrame(frameType string, data any) {
	r.frames = append(r.frames, frameType)
}

func (r *recorder) hasCode(code string) bool {
	for _, m := range r.messages {
		if m.Code == code {
			return true
		}
	}
	return false
}

func (r *recorder) hasText(substr string) bool {
	for _, m := range r.messages {
		if strings.Contains(m.Text, substr) {
			return true
		}
	}
	return false
}

// scenarioConfig mirrors the deterministic tuning the end-to-end scenarios
// assume: no variance, certain flee, tiny wolf.
func scenarioConfig() *game.Config {
	cfg := game.Default()
	cfg.PlayerDefaults = game.PlayerDefaults{
		StartingLocation: "town_square",
		Health:           100,
		Mana:             50,
		Damage:           3,
		Defense:          0,
		Gold:             25,
	}
	cfg.Gameplay.FleeSuccessChance = 1.0
	cfg.Gameplay.DamageVariance = 0.0
	cfg.Gameplay.MaxInventorySlots = 2
	cfg.Gameplay.DeathRespawnLocation = "town_square"
	return cfg
}

func scenarioCatalog(cfg *game.Config) *catalog.Catalog {
	itemMap := map[string]*items.Item{
		"iron_sword": {
			ID: "iron_sword", Name: "Iron Sword", Value: 20,
			Type: items.TypeEquipment, Slot: items.SlotWeapon, Stats: items.Stats{Damage: 5},
		},
		"health_potion": {
			ID: "health_potion", Name: "Health Potion", Value: 10,
			Type: items.TypeConsumable, HealAmount: 20, UsableIn: items.UseAny,
		},
	}
	enemies := map[string]*enemy.Enemy{
		"wolf": {
			ID: "wolf", Name: "Gray Wolf", Health: 10, MaxHealth: 10,
			Damage: 3, Defense: 0, Gold: 4, XP: 6,
			MaterialDrops: map[string]enemy.MaterialDrop{
				"wolf_pelt": {Chance: 1.0, Amount: "1-1"},
			},
			RespawnTime: 500,
		},
	}
	materials := map[string]*crafting.Material{
		"herb":      {ID: "herb", Name: "Herb"},
		"wolf_pelt": {ID: "wolf_pelt", Name: "Wolf Pelt"},
	}
	recipes := crafting.NewRecipeRegistry()
	recipes.Add(&crafting.Recipe{
		ID: "brew", Name: "Herbal Brew", ResultID: "health_potion",
		ResultType: crafting.ResultItem, Materials: map[string]int{"herb": 2}, RequiredLevel: 1,
	})
	shops := map[string]*shop.Shop{
		"general": {ID: "general", Name: "General Store", Items: []string{"iron_sword"}},
	}

	return &catalog.Catalog{
		Config:    cfg,
		Items:     itemMap,
		Enemies:   enemies,
		NPCs:      map[string]*npc.NPC{},
		Quests:    quest.NewRegistry(),
		Shops:     shops,
		Recipes:   recipes,
		Materials: materials,
		Locations: scenarioLocations(),
	}
}

func scenarioLocations() map[string]*world.Location {
	return map[string]*world.Location{
		"town_square": {
			ID: "town_square", Name: "Town Square", Description: "The square.",
			Exits: map[string]string{"north": "forest"},
			Shop:  "general",
		},
		"forest": {
			ID: "forest", Name: "Forest", Description: "The forest.",
			Exits:   map[string]string{"south": "town_square"},
			Enemies: []world.EnemyPlacement{{EnemyID: "wolf"}},
			Resources: []world.ResourceNode{
				{MaterialID: "herb", Amount: "1-1", Cooldown: 1000, Chance: 1.0},
			},
		},
		"pit": {
			ID: "pit", Name: "The Pit", Description: "No way out.",
			Exits:   map[string]string{},
			Enemies: []world.EnemyPlacement{{EnemyID: "wolf"}},
		},
	}
}

// newTestServer builds a fully wired server with no network attached.
func newTestServer(t *testing.T, mutate func(*game.Config)) *Server {
	t.Helper()

	cfg := scenarioConfig()
	if mutate != nil {
		mutate(cfg)
	}
	cat := scenarioCatalog(cfg)

	w, err := world.New(cat.Locations, world.Deps{
		Items:     cat.Items,
		Enemies:   cat.Enemies,
		NPCs:      cat.NPCs,
		Shops:     cat.Shops,
		Materials: cat.Materials,
	})
	require.NoError(t, err)

	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	return New(config.DefaultConfig(), cat, w, st)
}

// join attaches a named player at a location with a recording sink.
func join(s *Server, name, location string) (*player.Player, *recorder) {
	p := player.New(name, "hash", s.cat.Config.PlayerDefaults)
	p.Location = location
	rec := &recorder{}
	p.Attach(rec)
	s.players[strings.ToLower(name)] = p
	return p, rec
}
