package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RednibCoding/mudden/internal/game"
	"github.com/RednibCoding/mudden/internal/items"
)

func testDefaults() game.PlayerDefaults {
	return game.PlayerDefaults{
		StartingLocation: "town_square",
		Health:           100,
		Mana:             50,
		Damage:           10,
		Defense:          5,
		Gold:             25,
	}
}

func sword() *items.Item {
	return items.NewInstance(&items.Item{
		ID: "iron_sword", Name: "Iron Sword", Type: items.TypeEquipment,
		Slot: items.SlotWeapon, Stats: items.Stats{Damage: 5},
	})
}

func helm() *items.Item {
	return items.NewInstance(&items.Item{
		ID: "crown", Name: "Crown", Type: items.TypeEquipment,
		Slot: items.SlotAccessory, Stats: items.Stats{Health: 20},
	})
}

func TestNewUsesDefaults(t *testing.T) {
	p := New("Alice", "hash", testDefaults())

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "town_square", p.Location)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 100, p.CurrentHealth)
	assert.Equal(t, 25, p.Gold)
	assert.True(t, p.Alive())
}

func TestInventoryCap(t *testing.T) {
	p := New("Alice", "hash", testDefaults())

	require.True(t, p.AddItem(sword(), 2))
	require.True(t, p.AddItem(sword(), 2))
	assert.False(t, p.AddItem(sword(), 2), "third item must not fit")
	assert.Len(t, p.Inventory, 2)
}

func TestEquipSwapsInPlace(t *testing.T) {
	p := New("Alice", "hash", testDefaults())
	first, second := sword(), sword()
	require.True(t, p.AddItem(first, 16))
	require.True(t, p.AddItem(second, 16))

	require.True(t, p.Equip(first))
	assert.Equal(t, 10+5, p.Damage())
	assert.Len(t, p.Inventory, 1)

	// Swapping puts the previous weapon back without growing the inventory.
	require.True(t, p.Equip(second))
	assert.Len(t, p.Inventory, 1)
	assert.Same(t, first, p.Inventory[0])
	assert.Same(t, second, p.Equipped[items.SlotWeapon])
}

func TestEquipUnequipInverse(t *testing.T) {
	p := New("Alice", "hash", testDefaults())
	s := sword()
	require.True(t, p.AddItem(s, 16))

	baseDamage := p.Damage()
	require.True(t, p.Equip(s))
	got := p.Unequip(items.SlotWeapon, 16)

	require.Same(t, s, got)
	assert.Equal(t, baseDamage, p.Damage())
	assert.Len(t, p.Inventory, 1)
	assert.Nil(t, p.Equipped[items.SlotWeapon])
}

func TestUnequipRequiresSpace(t *testing.T) {
	p := New("Alice", "hash", testDefaults())
	s := sword()
	require.True(t, p.AddItem(s, 1))
	require.True(t, p.Equip(s))
	require.True(t, p.AddItem(sword(), 1))

	assert.Nil(t, p.Unequip(items.SlotWeapon, 1))
	assert.Same(t, s, p.Equipped[items.SlotWeapon])
}

func TestUnequipClampsVitals(t *testing.T) {
	p := New("Alice", "hash", testDefaults())
	h := helm()
	require.True(t, p.AddItem(h, 16))
	require.True(t, p.Equip(h))
	p.CurrentHealth = p.MaxHealth()
	require.Equal(t, 120, p.CurrentHealth)

	p.Unequip(items.SlotAccessory, 16)
	assert.Equal(t, 100, p.CurrentHealth)
}

func TestConsumeMaterialsAllOrNothing(t *testing.T) {
	p := New("Alice", "hash", testDefaults())
	p.AddMaterial("herb", 3)
	p.AddMaterial("ore", 1)

	assert.False(t, p.ConsumeMaterials(map[string]int{"herb": 2, "ore": 2}))
	assert.Equal(t, 3, p.Materials["herb"], "failed consume must not touch counts")

	assert.True(t, p.ConsumeMaterials(map[string]int{"herb": 3, "ore": 1}))
	assert.Empty(t, p.Materials)
}

func TestTradeEscrowConservation(t *testing.T) {
	p := New("Alice", "hash", testDefaults())
	s := sword()
	require.True(t, p.AddItem(s, 16))
	p.Trade = &TradeState{With: "Bob"}

	require.True(t, p.AddEscrowItem(s))
	assert.Empty(t, p.Inventory)
	assert.Len(t, p.Trade.Items, 1)

	p.RestoreEscrow()
	assert.Nil(t, p.Trade)
	assert.Len(t, p.Inventory, 1)
	assert.Same(t, s, p.Inventory[0])
}

func TestRemoveItemsByID(t *testing.T) {
	p := New("Alice", "hash", testDefaults())
	require.True(t, p.AddItem(sword(), 16))
	require.True(t, p.AddItem(sword(), 16))
	require.True(t, p.AddItem(helm(), 16))

	removed := p.RemoveItemsByID("iron_sword", 1)
	assert.Len(t, removed, 1)
	assert.Equal(t, 1, p.CountItem("iron_sword"))
	assert.Equal(t, 1, p.CountItem("crown"))
}
