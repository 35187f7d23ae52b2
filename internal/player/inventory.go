package player

import (
	"github.com/RednibCoding/mudden/internal/items"
)

// HasInventorySpace reports whether n more items fit under the cap.
func (p *Player) HasInventorySpace(cap, n int) bool {
	return len(p.Inventory)+n <= cap
}

// AddItem appends an item instance, enforcing the slot cap. Reports success;
// on failure nothing changes.
func (p *Player) AddItem(it *items.Item, cap int) bool {
	if !p.HasInventorySpace(cap, 1) {
		return false
	}
	p.Inventory = append(p.Inventory, it)
	return true
}

// FindItem returns the first inventory item with the given template id.
func (p *Player) FindItem(id string) *items.Item {
	for _, it := range p.Inventory {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// CountItem returns how many inventory items share the template id.
func (p *Player) CountItem(id string) int {
	count := 0
	for _, it := range p.Inventory {
		if it.ID == id {
			count++
		}
	}
	return count
}

// RemoveItem removes an item instance by identity. Reports whether it was
// present.
func (p *Player) RemoveItem(target *items.Item) bool {
	for i, it := range p.Inventory {
		if it == target {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveItemsByID removes up to n items with the template id, returning the
// removed instances in inventory order.
func (p *Player) RemoveItemsByID(id string, n int) []*items.Item {
	var removed []*items.Item
	kept := p.Inventory[:0]
	for _, it := range p.Inventory {
		if it.ID == id && len(removed) < n {
			removed = append(removed, it)
			continue
		}
		kept = append(kept, it)
	}
	p.Inventory = kept
	return removed
}

// Equip moves an inventory item into its slot, swapping any previous
// occupant back to the same inventory position. Current vitals clamp to the
// new maxima.
func (p *Player) Equip(target *items.Item) bool {
	for i, it := range p.Inventory {
		if it != target {
			continue
		}
		prev := p.Equipped[target.Slot]
		if prev != nil {
			p.Inventory[i] = prev
		} else {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
		}
		p.Equipped[target.Slot] = target
		p.ClampVitals()
		return true
	}
	return false
}

// Unequip moves the slot's occupant back to inventory. The caller checks
// inventory space first; this fails when the slot is empty or the cap is hit.
func (p *Player) Unequip(slot items.Slot, cap int) *items.Item {
	it := p.Equipped[slot]
	if it == nil || !p.HasInventorySpace(cap, 1) {
		return nil
	}
	p.Equipped[slot] = nil
	p.Inventory = append(p.Inventory, it)
	p.ClampVitals()
	return it
}

// AddMaterial credits a material count.
func (p *Player) AddMaterial(id string, n int) {
	if n > 0 {
		p.Materials[id] += n
	}
}

// ConsumeMaterials removes the full set of required materials, all or
// nothing. Reports success; on failure nothing changes.
func (p *Player) ConsumeMaterials(required map[string]int) bool {
	for id, n := range required {
		if p.Materials[id] < n {
			return false
		}
	}
	for id, n := range required {
		p.Materials[id] -= n
		if p.Materials[id] == 0 {
			delete(p.Materials, id)
		}
	}
	return true
}
