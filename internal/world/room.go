package world

import (
	"time"

	"github.com/RednibCoding/mudden/internal/enemy"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/npc"
	"github.com/RednibCoding/mudden/internal/shop"
)

// EnemyInstance is the live state of one room-scoped enemy declaration.
// Alive -> Defeated -> (respawn deadline) -> Alive; one-time enemies never
// come back and are filtered per player by the one-time defeat set.
type EnemyInstance struct {
	Template  *enemy.Enemy
	Placement EnemyPlacement

	CurrentHealth int
	Fighters      []string // ordered set of usernames, cleared on defeat and respawn
	Defeated      bool
	LastKilledAt  time.Time
	LastDamagedAt time.Time
}

// Alive reports whether the enemy can currently be fought.
func (e *EnemyInstance) Alive() bool {
	return !e.Defeated && e.CurrentHealth > 0
}

// AddFighter appends a username to the fighters set; idempotent.
func (e *EnemyInstance) AddFighter(username string) {
	for _, f := range e.Fighters {
		if f == username {
			return
		}
	}
	e.Fighters = append(e.Fighters, username)
}

// RemoveFighter drops a username from the fighters set.
func (e *EnemyInstance) RemoveFighter(username string) {
	for i, f := range e.Fighters {
		if f == username {
			e.Fighters = append(e.Fighters[:i], e.Fighters[i+1:]...)
			return
		}
	}
}

// HasFighter reports whether username is engaged with this enemy.
func (e *EnemyInstance) HasFighter(username string) bool {
	for _, f := range e.Fighters {
		if f == username {
			return true
		}
	}
	return false
}

// Defeat marks the instance dead and clears its fighters.
func (e *EnemyInstance) Defeat(now time.Time) {
	e.Defeated = true
	e.CurrentHealth = 0
	e.Fighters = nil
	e.LastKilledAt = now
}

// Respawn revives the instance at full health with no fighters.
func (e *EnemyInstance) Respawn() {
	e.Defeated = false
	e.CurrentHealth = e.Template.MaxHealth
	e.Fighters = nil
	e.LastKilledAt = time.Time{}
	e.LastDamagedAt = time.Time{}
}

// RespawnTime returns the instance's respawn delay, falling back to def.
func (e *EnemyInstance) RespawnTime(def time.Duration) time.Duration {
	if e.Template.RespawnTime > 0 {
		return time.Duration(e.Template.RespawnTime) * time.Millisecond
	}
	return def
}

// GroundItem is an item lying in a room: either a preset declaration or a
// runtime drop.
type GroundItem struct {
	Item *items.Item

	// Preset fields.
	Preset         bool
	RespawnTime    int // ms; 0 means a preset vanishes permanently once taken
	OneTime        bool
	PrereqActive   []string
	PrereqComplete []string
	LastPickedUpAt time.Time

	// Drop fields.
	DroppedAt time.Time
}

// Room is a location template plus its attached live state. All references
// are resolved at world construction; mutation happens under the server's
// game lock.
type Room struct {
	Loc *Location

	NPCs    []*npc.NPC
	Shop    *shop.Shop
	Enemies []*EnemyInstance

	// Ground holds preset items; Dropped holds runtime drops (capped, FIFO).
	Ground  []*GroundItem
	Dropped []*GroundItem
}

// ID returns the room's location id.
func (r *Room) ID() string { return r.Loc.ID }

// FindNPC returns the room NPC with the given id, or nil.
func (r *Room) FindNPC(id string) *npc.NPC {
	for _, n := range r.NPCs {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// FindEnemy returns the first room enemy instance of the given template id
// that passes the filter, or nil.
func (r *Room) FindEnemy(id string, match func(*EnemyInstance) bool) *EnemyInstance {
	for _, e := range r.Enemies {
		if e.Template.ID == id && (match == nil || match(e)) {
			return e
		}
	}
	return nil
}

// ResourceNode returns the room's resource node for a material, or nil.
func (r *Room) ResourceNode(materialID string) *ResourceNode {
	for i := range r.Loc.Resources {
		if r.Loc.Resources[i].MaterialID == materialID {
			return &r.Loc.Resources[i]
		}
	}
	return nil
}

// RemoveDropped removes a dropped ground item by identity.
func (r *Room) RemoveDropped(g *GroundItem) {
	for i, d := range r.Dropped {
		if d == g {
			r.Dropped = append(r.Dropped[:i], r.Dropped[i+1:]...)
			return
		}
	}
}
