// Package items defines item templates and live item instances. An item
// template is a tagged variant: its Type decides which optional fields are
// meaningful, and callers should go through the kind accessors rather than
// reading variant fields directly.
package items

import (
	"fmt"

	"github.com/google/uuid"
)

// Type is the item variant tag.
type Type string

const (
	TypeEquipment  Type = "equipment"
	TypeConsumable Type = "consumable"
	TypeRecipe     Type = "recipe"
	TypeQuest      Type = "quest"
	TypeMaterial   Type = "material"
)

// Slot is where a piece of equipment goes.
type Slot string

const (
	SlotWeapon    Slot = "weapon"
	SlotArmor     Slot = "armor"
	SlotShield    Slot = "shield"
	SlotAccessory Slot = "accessory"
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{SlotWeapon, SlotArmor, SlotShield, SlotAccessory}

// ValidSlot reports whether s names an equipment slot.
func ValidSlot(s Slot) bool {
	switch s {
	case SlotWeapon, SlotArmor, SlotShield, SlotAccessory:
		return true
	}
	return false
}

// UseContext gates where a consumable may be used.
type UseContext string

const (
	UseAny      UseContext = "any"
	UseCombat   UseContext = "combat"
	UsePeaceful UseContext = "peaceful"
)

// Stats are the bonuses an equipped item contributes.
type Stats struct {
	Damage  int `json:"damage,omitempty"`
	Defense int `json:"defense,omitempty"`
	Health  int `json:"health,omitempty"`
	Mana    int `json:"mana,omitempty"`
}

// Item is an item template, or an instance of one when Instance is set.
// Templates are immutable after load; instances are copies handed to
// inventories, escrows, and ground lists.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       int    `json:"value"`
	Type        Type   `json:"type"`

	// Equipment fields.
	Slot  Slot  `json:"slot,omitempty"`
	Stats Stats `json:"stats,omitempty"`

	// Consumable fields.
	HealAmount int        `json:"healAmount,omitempty"`
	ManaAmount int        `json:"manaAmount,omitempty"`
	ManaCost   int        `json:"manaCost,omitempty"`
	Damage     int        `json:"damage,omitempty"`
	TeleportTo string     `json:"teleportTo,omitempty"`
	UsableIn   UseContext `json:"usableIn,omitempty"`

	// Recipe-teaching fields.
	TeachesRecipe string `json:"teachesRecipe,omitempty"`

	// MaterialID links a material-ref item to its material.
	MaterialID string `json:"materialId,omitempty"`

	// Instance distinguishes live copies of the same template. Empty on
	// templates; never persisted.
	Instance string `json:"-"`
}

// NewInstance copies a template into a live instance with a fresh identity.
func NewInstance(tmpl *Item) *Item {
	inst := *tmpl
	inst.Instance = uuid.NewString()
	return &inst
}

// IsEquipment reports whether the item can be worn or wielded.
func (i *Item) IsEquipment() bool { return i.Type == TypeEquipment }

// IsConsumable reports whether the item can be used up.
func (i *Item) IsConsumable() bool { return i.Type == TypeConsumable }

// IsRecipeScroll reports whether using the item teaches a recipe.
func (i *Item) IsRecipeScroll() bool { return i.Type == TypeRecipe && i.TeachesRecipe != "" }

// UseContextOrDefault returns the consumable's context gate, defaulting to any.
func (i *Item) UseContextOrDefault() UseContext {
	if i.UsableIn == "" {
		return UseAny
	}
	return i.UsableIn
}

// Validate checks variant consistency after load.
func (i *Item) Validate() error {
	switch i.Type {
	case TypeEquipment:
		if !ValidSlot(i.Slot) {
			return fmt.Errorf("item %s: equipment needs a valid slot, got %q", i.ID, i.Slot)
		}
	case TypeConsumable, TypeQuest, TypeMaterial:
	case TypeRecipe:
		if i.TeachesRecipe == "" {
			return fmt.Errorf("item %s: recipe item must name teachesRecipe", i.ID)
		}
	default:
		return fmt.Errorf("item %s: unknown type %q", i.ID, i.Type)
	}
	switch i.UsableIn {
	case "", UseAny, UseCombat, UsePeaceful:
	default:
		return fmt.Errorf("item %s: unknown usableIn %q", i.ID, i.UsableIn)
	}
	return nil
}

// String renders a short display form.
func (i *Item) String() string {
	return fmt.Sprintf("%s (%s, %d gold)", i.Name, i.Type, i.Value)
}
