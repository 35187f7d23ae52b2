package world

import (
	"fmt"
	"time"

	"github.com/RednibCoding/mudden/internal/crafting"
	"github.com/RednibCoding/mudden/internal/enemy"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/npc"
	"github.com/RednibCoding/mudden/internal/shop"
)

// Deps are the template catalogs a world is built against.
type Deps struct {
	Items     map[string]*items.Item
	Enemies   map[string]*enemy.Enemy
	NPCs      map[string]*npc.NPC
	Shops     map[string]*shop.Shop
	Materials map[string]*crafting.Material
}

// Viewer filters entity visibility for one player. Implemented by the player
// record; fighters and one-time sets are keyed by username and location.
type Viewer interface {
	Name() string
	HasActiveQuest(id string) bool
	HasCompletedQuest(id string) bool
	DefeatedOneTime(key string) bool
	PickedUpOneTime(key string) bool
}

// World owns the room map built from location templates. Templates stay
// immutable; the attached instances mutate under the server's game lock.
type World struct {
	rooms map[string]*Room
}

// New resolves every location's references against the catalogs and builds
// the runtime room map. Unknown references abort with the offending source.
func New(locations map[string]*Location, deps Deps) (*World, error) {
	w := &World{rooms: make(map[string]*Room, len(locations))}

	for id, loc := range locations {
		room := &Room{Loc: loc}

		for dir, dest := range loc.Exits {
			if _, ok := locations[dest]; !ok {
				return nil, fmt.Errorf("location %q referenced from %s exit %s does not exist", dest, id, dir)
			}
		}

		for _, npcID := range loc.NPCs {
			n, ok := deps.NPCs[npcID]
			if !ok {
				return nil, fmt.Errorf("npc %q referenced from location %s does not exist", npcID, id)
			}
			room.NPCs = append(room.NPCs, n)
		}

		if loc.Shop != "" {
			s, ok := deps.Shops[loc.Shop]
			if !ok {
				return nil, fmt.Errorf("shop %q referenced from location %s does not exist", loc.Shop, id)
			}
			room.Shop = s
		}

		for _, placement := range loc.Enemies {
			tmpl, ok := deps.Enemies[placement.EnemyID]
			if !ok {
				return nil, fmt.Errorf("enemy %q referenced from location %s does not exist", placement.EnemyID, id)
			}
			merged := placement
			if len(merged.PrerequisiteActiveQuests) == 0 {
				merged.PrerequisiteActiveQuests = tmpl.PrerequisiteActiveQuests
			}
			if len(merged.PrerequisiteCompletedQuests) == 0 {
				merged.PrerequisiteCompletedQuests = tmpl.PrerequisiteCompletedQuests
			}
			merged.OneTime = merged.OneTime || tmpl.OneTime
			room.Enemies = append(room.Enemies, &EnemyInstance{
				Template:      tmpl,
				Placement:     merged,
				CurrentHealth: tmpl.MaxHealth,
			})
		}

		for _, decl := range loc.GroundItems {
			tmpl, ok := deps.Items[decl.ItemID]
			if !ok {
				return nil, fmt.Errorf("item %q referenced from location %s does not exist", decl.ItemID, id)
			}
			room.Ground = append(room.Ground, &GroundItem{
				Item:           items.NewInstance(tmpl),
				Preset:         true,
				RespawnTime:    decl.RespawnTime,
				OneTime:        decl.OneTime,
				PrereqActive:   decl.PrerequisiteActiveQuests,
				PrereqComplete: decl.PrerequisiteCompletedQuests,
			})
		}

		for _, node := range loc.Resources {
			if _, ok := deps.Materials[node.MaterialID]; !ok {
				return nil, fmt.Errorf("material %q referenced from location %s does not exist", node.MaterialID, id)
			}
		}

		w.rooms[id] = room
	}

	return w, nil
}

// Room returns the room for a location id, or nil.
func (w *World) Room(id string) *Room {
	return w.rooms[id]
}

// Rooms returns the full room map. Callers must hold the game lock to touch
// instance state.
func (w *World) Rooms() map[string]*Room {
	return w.rooms
}

// RoomCount returns the number of rooms.
func (w *World) RoomCount() int {
	return len(w.rooms)
}

// gatesOpen checks quest prerequisites against a viewer.
func gatesOpen(v Viewer, active, completed []string) bool {
	for _, q := range active {
		if !v.HasActiveQuest(q) {
			return false
		}
	}
	for _, q := range completed {
		if !v.HasCompletedQuest(q) {
			return false
		}
	}
	return true
}

// OneTimeKey builds the "{locationId}.{entityId}" key used by the per-player
// one-time sets.
func OneTimeKey(locationID, entityID string) string {
	return locationID + "." + entityID
}

// VisibleEnemies returns the room's enemy instances visible to the viewer:
// alive, prerequisites met, and not in the viewer's one-time defeat set.
func (w *World) VisibleEnemies(v Viewer, locationID string) []*EnemyInstance {
	room := w.rooms[locationID]
	if room == nil {
		return nil
	}
	var out []*EnemyInstance
	for _, e := range room.Enemies {
		if !e.Alive() {
			continue
		}
		if !gatesOpen(v, e.Placement.PrerequisiteActiveQuests, e.Placement.PrerequisiteCompletedQuests) {
			continue
		}
		if e.Placement.OneTime && v.DefeatedOneTime(OneTimeKey(locationID, e.Template.ID)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// VisibleGroundItems returns the room's ground items visible to the viewer:
// preset items that are off cooldown, gated, and not one-time-taken, plus all
// runtime drops.
func (w *World) VisibleGroundItems(v Viewer, locationID string, now time.Time) []*GroundItem {
	room := w.rooms[locationID]
	if room == nil {
		return nil
	}
	var out []*GroundItem
	for _, g := range room.Ground {
		if !gatesOpen(v, g.PrereqActive, g.PrereqComplete) {
			continue
		}
		// One-time items and presets that never respawn stay gone per player;
		// respawnable presets are hidden for everyone until the cooldown ends.
		if (g.OneTime || g.RespawnTime <= 0) && v.PickedUpOneTime(OneTimeKey(locationID, g.Item.ID)) {
			continue
		}
		if g.RespawnTime > 0 && !g.LastPickedUpAt.IsZero() &&
			now.Sub(g.LastPickedUpAt) < time.Duration(g.RespawnTime)*time.Millisecond {
			continue
		}
		out = append(out, g)
	}
	out = append(out, room.Dropped...)
	return out
}
