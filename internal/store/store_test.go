package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RednibCoding/mudden/internal/game"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/player"
)

func testDefaults() game.PlayerDefaults {
	return game.PlayerDefaults{StartingLocation: "square", Health: 100, Mana: 50, Damage: 10, Defense: 5, Gold: 25}
}

var swordTemplate = &items.Item{
	ID: "iron_sword", Name: "Iron Sword", Type: items.TypeEquipment,
	Slot: items.SlotWeapon, Stats: items.Stats{Damage: 5},
}

func lookup(id string) *items.Item {
	if id == "iron_sword" {
		return swordTemplate
	}
	return nil
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	p := player.New("Alice", "hash", testDefaults())
	p.Gold = 99
	p.XP = 140
	p.Level = 2
	p.Inventory = append(p.Inventory, items.NewInstance(swordTemplate))
	p.Equipped[items.SlotWeapon] = items.NewInstance(swordTemplate)
	p.Materials["herb"] = 3
	p.ActiveQuests["pelts"] = 1
	p.CompletedQuests["intro"] = true
	p.OneTimeEnemies["forest.ghost"] = true
	p.HomestoneLocation = "square"

	require.NoError(t, s.Save(FromPlayer(p)))
	assert.True(t, s.Exists("alice"), "lookup is case-insensitive")

	rec, err := s.Load("ALICE")
	require.NoError(t, err)

	restored := rec.Hydrate(lookup, testDefaults())
	assert.Equal(t, p.ID, restored.ID)
	assert.Equal(t, 99, restored.Gold)
	assert.Equal(t, 2, restored.Level)
	assert.Equal(t, 1, restored.CountItem("iron_sword"))
	require.NotNil(t, restored.Equipped[items.SlotWeapon])
	assert.Equal(t, 3, restored.Materials["herb"])
	assert.Equal(t, 1, restored.ActiveQuests["pelts"])
	assert.True(t, restored.CompletedQuests["intro"])
	assert.True(t, restored.OneTimeEnemies["forest.ghost"])
	assert.Equal(t, "square", restored.HomestoneLocation)
}

func TestEscrowFoldsBackIntoRecord(t *testing.T) {
	p := player.New("Alice", "hash", testDefaults())
	inst := items.NewInstance(swordTemplate)
	p.Inventory = append(p.Inventory, inst)
	p.Gold = 50
	p.Trade = &player.TradeState{With: "Bob"}
	require.True(t, p.AddEscrowItem(inst))
	p.Gold -= 10
	p.Trade.Gold = 10

	rec := FromPlayer(p)
	assert.Equal(t, []string{"iron_sword"}, rec.Inventory)
	assert.Equal(t, 50, rec.Gold, "escrowed gold counts as the owner's")
}

func TestHydrateDropsUnknownItems(t *testing.T) {
	rec := &Record{
		ID: "id", Username: "Alice", PasswordHash: "hash", Location: "square",
		Level: 1, BaseHealth: 100, BaseMana: 50, BaseDamage: 10, BaseDefense: 5,
		Health: 100, Mana: 50,
		Inventory: []string{"iron_sword", "vanished_relic"},
	}
	restored := rec.Hydrate(lookup, testDefaults())
	assert.Equal(t, 1, len(restored.Inventory))
}

func TestLoadMissing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	p := player.New("Alice", "hash", testDefaults())
	require.NoError(t, s.Save(FromPlayer(p)))
	require.NoError(t, s.Delete("Alice"))
	assert.False(t, s.Exists("Alice"))
	assert.NoError(t, s.Delete("Alice"), "deleting a missing record is fine")
}
