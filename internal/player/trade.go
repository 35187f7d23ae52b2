package player

import (
	"github.com/RednibCoding/mudden/internal/items"
)

// TradeState is one side of a two-party escrow. Items in Items are out of
// the owner's inventory while escrowed; Gold is deducted up front. Each side
// reads the other side's offer from the partner record's own TradeState.
type TradeState struct {
	With        string // partner username
	InitiatedBy string

	// Pending is true on the receiving side before accept.
	Pending bool

	Items []*items.Item
	Gold  int
	Ready bool
}

// AddEscrowItem moves an inventory item into escrow. Both sides' ready flags
// are reset by the caller.
func (p *Player) AddEscrowItem(target *items.Item) bool {
	if p.Trade == nil || !p.RemoveItem(target) {
		return false
	}
	p.Trade.Items = append(p.Trade.Items, target)
	return true
}

// RemoveEscrowItem moves an escrowed item back to inventory without a slot
// check; the inventory may have filled while the item was escrowed, so the
// caller checks space first.
func (p *Player) RemoveEscrowItem(id string) *items.Item {
	if p.Trade == nil {
		return nil
	}
	for i, it := range p.Trade.Items {
		if it.ID == id {
			p.Trade.Items = append(p.Trade.Items[:i], p.Trade.Items[i+1:]...)
			p.Inventory = append(p.Inventory, it)
			return it
		}
	}
	return nil
}

// RestoreEscrow returns all escrowed items and gold to the owner and clears
// the trade state.
func (p *Player) RestoreEscrow() {
	if p.Trade == nil {
		return
	}
	p.Inventory = append(p.Inventory, p.Trade.Items...)
	p.Gold += p.Trade.Gold
	p.Trade = nil
}
