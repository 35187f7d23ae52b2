// Package player holds the authoritative in-memory player record. Records
// are plain data guarded by the server's game lock; the only concurrency-safe
// entry point is Send, which hands frames to the connection's writer queue.
package player

import (
	"time"

	"github.com/google/uuid"

	"github.com/RednibCoding/mudden/internal/game"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/protocol"
)

// Sink delivers outbound frames for one connection. Implementations must not
// block; delivery is best-effort.
type Sink interface {
	SendMessage(mt protocol.MessageType, text, code string)
	SendFrame(frameType string, data any)
}

// Player is one player's full runtime state.
type Player struct {
	ID           string
	Username     string
	PasswordHash string

	Location string

	Level         int
	XP            int
	BaseHealth    int
	BaseMana      int
	BaseDamage    int
	BaseDefense   int
	CurrentHealth int
	CurrentMana   int
	Gold          int

	Inventory []*items.Item
	Materials map[string]int
	Equipped  map[items.Slot]*items.Item

	KnownRecipes    map[string]bool
	ActiveQuests    map[string]int
	CompletedQuests map[string]bool
	QuestItems      map[string]int

	OneTimeEnemies map[string]bool
	OneTimeItems   map[string]bool
	LastHarvest    map[string]int64 // "{locationId}_{materialId}" -> epoch ms

	LastWhisperFrom string
	Friends         []string
	PvPWins         int
	PvPLosses       int

	HomestoneLocation string
	LastItemUseAt     int64 // epoch ms
	BannedUntil       int64 // epoch ms, 0 = not banned
	InPvPCombat       bool
	IsGM              bool

	// CombatTarget is the enemy template id auto-attack rounds re-enter
	// against; empty when not initiating combat.
	CombatTarget string

	Trade *TradeState

	sink Sink
}

// New creates a fresh player record from the configured defaults.
func New(username, passwordHash string, defaults game.PlayerDefaults) *Player {
	p := &Player{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	p.Reset(defaults)
	return p
}

// Reset restores the record to a freshly registered state, keeping identity
// and credentials.
func (p *Player) Reset(defaults game.PlayerDefaults) {
	p.Location = defaults.StartingLocation
	p.Level = 1
	p.XP = 0
	p.BaseHealth = defaults.Health
	p.BaseMana = defaults.Mana
	p.BaseDamage = defaults.Damage
	p.BaseDefense = defaults.Defense
	p.CurrentHealth = defaults.Health
	p.CurrentMana = defaults.Mana
	p.Gold = defaults.Gold
	p.Inventory = nil
	p.Materials = make(map[string]int)
	p.Equipped = make(map[items.Slot]*items.Item)
	p.KnownRecipes = make(map[string]bool)
	p.ActiveQuests = make(map[string]int)
	p.CompletedQuests = make(map[string]bool)
	p.QuestItems = make(map[string]int)
	p.OneTimeEnemies = make(map[string]bool)
	p.OneTimeItems = make(map[string]bool)
	p.LastHarvest = make(map[string]int64)
	p.LastWhisperFrom = ""
	p.Friends = nil
	p.PvPWins = 0
	p.PvPLosses = 0
	p.HomestoneLocation = ""
	p.LastItemUseAt = 0
	p.InPvPCombat = false
	p.CombatTarget = ""
	p.Trade = nil
}

// Attach binds the connection's frame sink.
func (p *Player) Attach(sink Sink) { p.sink = sink }

// Detach drops the frame sink on disconnect.
func (p *Player) Detach() { p.sink = nil }

// Send delivers a typed message frame to the player, if attached.
func (p *Player) Send(mt protocol.MessageType, text string) {
	if p.sink != nil {
		p.sink.SendMessage(mt, text, "")
	}
}

// SendError delivers an error-typed message with its stable code.
func (p *Player) SendError(code, text string) {
	if p.sink != nil {
		p.sink.SendMessage(protocol.Error, text, code)
	}
}

// SendFrame delivers an arbitrary frame to the player, if attached.
func (p *Player) SendFrame(frameType string, data any) {
	if p.sink != nil {
		p.sink.SendFrame(frameType, data)
	}
}

// Attached reports whether a connection sink is bound.
func (p *Player) Attached() bool { return p.sink != nil }

// Name implements world.Viewer.
func (p *Player) Name() string { return p.Username }

// HasActiveQuest implements world.Viewer.
func (p *Player) HasActiveQuest(id string) bool {
	_, ok := p.ActiveQuests[id]
	return ok
}

// HasCompletedQuest implements world.Viewer.
func (p *Player) HasCompletedQuest(id string) bool { return p.CompletedQuests[id] }

// DefeatedOneTime implements world.Viewer.
func (p *Player) DefeatedOneTime(key string) bool { return p.OneTimeEnemies[key] }

// PickedUpOneTime implements world.Viewer.
func (p *Player) PickedUpOneTime(key string) bool { return p.OneTimeItems[key] }

// MaxHealth is base health plus equipment bonuses.
func (p *Player) MaxHealth() int { return p.BaseHealth + p.equipSum(func(s items.Stats) int { return s.Health }) }

// MaxMana is base mana plus equipment bonuses.
func (p *Player) MaxMana() int { return p.BaseMana + p.equipSum(func(s items.Stats) int { return s.Mana }) }

// Damage is base damage plus equipment bonuses.
func (p *Player) Damage() int { return p.BaseDamage + p.equipSum(func(s items.Stats) int { return s.Damage }) }

// Defense is base defense plus equipment bonuses.
func (p *Player) Defense() int { return p.BaseDefense + p.equipSum(func(s items.Stats) int { return s.Defense }) }

// Power is the PvP difficulty metric: effective health, damage and defense.
func (p *Player) Power() int { return p.MaxHealth() + p.Damage() + p.Defense() }

func (p *Player) equipSum(pick func(items.Stats) int) int {
	total := 0
	for _, it := range p.Equipped {
		if it != nil {
			total += pick(it.Stats)
		}
	}
	return total
}

// Alive reports whether the player has health left.
func (p *Player) Alive() bool { return p.CurrentHealth > 0 }

// ClampVitals caps current health and mana at the derived maxima.
func (p *Player) ClampVitals() {
	if p.CurrentHealth > p.MaxHealth() {
		p.CurrentHealth = p.MaxHealth()
	}
	if p.CurrentMana > p.MaxMana() {
		p.CurrentMana = p.MaxMana()
	}
}

// FullHeal restores health and mana to their maxima.
func (p *Player) FullHeal() {
	p.CurrentHealth = p.MaxHealth()
	p.CurrentMana = p.MaxMana()
}

// Banned reports whether the player is banned at the given time.
func (p *Player) Banned(now time.Time) bool {
	return p.BannedUntil > 0 && now.UnixMilli() < p.BannedUntil
}

// IsFriend reports whether name is on the friends list.
func (p *Player) IsFriend(name string) bool {
	for _, f := range p.Friends {
		if f == name {
			return true
		}
	}
	return false
}

// AddFriend appends a username; idempotent. Reports whether it was added.
func (p *Player) AddFriend(name string) bool {
	if p.IsFriend(name) {
		return false
	}
	p.Friends = append(p.Friends, name)
	return true
}

// RemoveFriend drops a username. Reports whether it was present.
func (p *Player) RemoveFriend(name string) bool {
	for i, f := range p.Friends {
		if f == name {
			p.Friends = append(p.Friends[:i], p.Friends[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot renders the client-facing view of this record.
func (p *Player) Snapshot() protocol.PlayerSnapshot {
	inv := make([]protocol.EntityRef, 0, len(p.Inventory))
	for _, it := range p.Inventory {
		inv = append(inv, protocol.EntityRef{ID: it.ID, Name: it.Name})
	}
	equipped := make(map[string]any, len(items.Slots))
	for _, slot := range items.Slots {
		if it := p.Equipped[slot]; it != nil {
			equipped[string(slot)] = protocol.EntityRef{ID: it.ID, Name: it.Name}
		} else {
			equipped[string(slot)] = nil
		}
	}
	mats := make(map[string]int, len(p.Materials))
	for id, count := range p.Materials {
		mats[id] = count
	}
	return protocol.PlayerSnapshot{
		ID:        p.ID,
		Username:  p.Username,
		Location:  p.Location,
		Level:     p.Level,
		XP:        p.XP,
		Health:    p.CurrentHealth,
		MaxHealth: p.MaxHealth(),
		Mana:      p.CurrentMana,
		MaxMana:   p.MaxMana(),
		Damage:    p.Damage(),
		Defense:   p.Defense(),
		Gold:      p.Gold,
		Inventory: inv,
		Equipped:  equipped,
		Materials: mats,
	}
}
