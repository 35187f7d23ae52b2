package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
	"github.com/RednibCoding/mudden/internal/quest"
	"github.com/RednibCoding/mudden/internal/world"
)

func cmdInventory(srv ServerInterface, p *player.Player, args []string) *GameError {
	cfg := srv.GameConfig()
	var b strings.Builder
	fmt.Fprintf(&b, "Gold: %d\n", p.Gold)
	fmt.Fprintf(&b, "Damage: %d  Defense: %d  Health: %d/%d  Mana: %d/%d\n",
		p.Damage(), p.Defense(), p.CurrentHealth, p.MaxHealth(), p.CurrentMana, p.MaxMana())
	fmt.Fprintf(&b, "Slots: %d/%d", len(p.Inventory), cfg.Gameplay.MaxInventorySlots)
	for _, it := range p.Inventory {
		fmt.Fprintf(&b, "\n  %s", it.Name)
	}
	p.Send(protocol.Info, b.String())
	return nil
}

func cmdEquipment(srv ServerInterface, p *player.Player, args []string) *GameError {
	var b strings.Builder
	b.WriteString("Equipped:")
	for _, slot := range items.Slots {
		if it := p.Equipped[slot]; it != nil {
			fmt.Fprintf(&b, "\n  %-9s %s", slot+":", it.Name)
		} else {
			fmt.Fprintf(&b, "\n  %-9s -", slot+":")
		}
	}
	p.Send(protocol.Info, b.String())
	return nil
}

func cmdExamine(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Examine what?")
	}
	id := args[0]
	cat := srv.Catalog()

	// Recipes show their material requirements with what the player holds.
	if r := cat.Recipes.Get(id); r != nil && (p.KnownRecipes[id] || p.FindItem(id) != nil) {
		var b strings.Builder
		fmt.Fprintf(&b, "%s (requires level %d)\nMaterials:", r.Name, r.RequiredLevel)
		for matID, n := range r.Materials {
			name := matID
			if mat := cat.Materials[matID]; mat != nil {
				name = mat.Name
			}
			fmt.Fprintf(&b, "\n  %s x%d (you have: %d)", name, n, p.Materials[matID])
		}
		p.Send(protocol.Info, b.String())
		return nil
	}

	if it := p.FindItem(id); it != nil {
		p.Send(protocol.Info, describeItem(it))
		return nil
	}
	for _, g := range srv.World().VisibleGroundItems(p, p.Location, time.Now()) {
		if g.Item.ID == id {
			p.Send(protocol.Info, describeItem(g.Item))
			return nil
		}
	}
	for _, e := range srv.World().VisibleEnemies(p, p.Location) {
		if e.Template.ID == id {
			t := e.Template
			p.Send(protocol.Info, fmt.Sprintf("%s\n%s\nHealth %d/%d, damage %d, defense %d",
				t.Name, t.Description, e.CurrentHealth, t.MaxHealth, t.Damage, t.Defense))
			return nil
		}
	}
	return NewError(CodeLookupUnknownID, "You see nothing like that here.")
}

func describeItem(it *items.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\nWorth %d gold.", it.Name, it.Description, it.Value)
	if it.IsEquipment() {
		fmt.Fprintf(&b, "\nSlot: %s", it.Slot)
		if it.Stats.Damage != 0 {
			fmt.Fprintf(&b, "  Damage +%d", it.Stats.Damage)
		}
		if it.Stats.Defense != 0 {
			fmt.Fprintf(&b, "  Defense +%d", it.Stats.Defense)
		}
		if it.Stats.Health != 0 {
			fmt.Fprintf(&b, "  Health +%d", it.Stats.Health)
		}
		if it.Stats.Mana != 0 {
			fmt.Fprintf(&b, "  Mana +%d", it.Stats.Mana)
		}
	}
	return b.String()
}

func cmdGet(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Get what?")
	}
	id := args[0]
	cfg := srv.GameConfig()
	w := srv.World()
	room := w.Room(p.Location)
	now := time.Now()

	var found *world.GroundItem
	for _, g := range w.VisibleGroundItems(p, p.Location, now) {
		if g.Item.ID == id {
			found = g
			break
		}
	}
	if found == nil {
		return NewError(CodeLookupUnknownID, "There is no such item here.")
	}
	if !p.HasInventorySpace(cfg.Gameplay.MaxInventorySlots, 1) {
		return NewError(CodeInventoryFull, "Your inventory is full.")
	}

	if found.Preset {
		// Preset items stay in place as declarations; the player receives a
		// fresh instance and the declaration goes on cooldown or into the
		// player's one-time set.
		p.AddItem(items.NewInstance(found.Item), cfg.Gameplay.MaxInventorySlots)
		if found.OneTime || found.RespawnTime <= 0 {
			p.OneTimeItems[world.OneTimeKey(p.Location, found.Item.ID)] = true
		}
		if found.RespawnTime > 0 {
			found.LastPickedUpAt = now
		}
	} else {
		room.RemoveDropped(found)
		p.AddItem(found.Item, cfg.Gameplay.MaxInventorySlots)
	}

	RefreshCollectProgress(srv, p)
	p.Send(protocol.Success, fmt.Sprintf("You pick up %s.", found.Item.Name))
	srv.Broadcast(p.Location, fmt.Sprintf("%s picks up %s.", p.Username, found.Item.Name), protocol.System, p.Username)
	srv.SavePlayer(p)
	return nil
}

// RefreshCollectProgress recomputes stored progress for active collect quests.
func RefreshCollectProgress(srv ServerInterface, p *player.Player) {
	for qid := range p.ActiveQuests {
		q := srv.Catalog().Quests.Get(qid)
		if q == nil || q.Type != quest.TypeCollect {
			continue
		}
		p.ActiveQuests[qid] = min(q.Count, p.CountItem(q.Target))
	}
}

func cmdDrop(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Drop what?")
	}
	it := p.FindItem(args[0])
	if it == nil {
		return NewError(CodeInventoryNotFound, "You don't have that.")
	}
	cfg := srv.GameConfig()
	room := srv.World().Room(p.Location)

	p.RemoveItem(it)
	room.Dropped = append(room.Dropped, &world.GroundItem{Item: it, DroppedAt: time.Now()})

	// FIFO-evict past the per-room cap.
	for cfg.Gameplay.MaxDroppedItemsPerLocation > 0 && len(room.Dropped) > cfg.Gameplay.MaxDroppedItemsPerLocation {
		evicted := room.Dropped[0]
		room.Dropped = room.Dropped[1:]
		srv.Broadcast(p.Location, fmt.Sprintf("%s crumbles to dust.", evicted.Item.Name), protocol.System, "")
	}

	RefreshCollectProgress(srv, p)
	p.Send(protocol.Success, fmt.Sprintf("You drop %s.", it.Name))
	srv.Broadcast(p.Location, fmt.Sprintf("%s drops %s.", p.Username, it.Name), protocol.System, p.Username)
	srv.SavePlayer(p)
	return nil
}

func cmdGive(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) < 2 {
		return NewError(CodeBadArguments, "Give what to whom?")
	}

	// Gold form: give N gold <player>.
	if len(args) == 3 && strings.EqualFold(args[1], "gold") {
		amount, err := strconv.Atoi(args[0])
		if err != nil || amount <= 0 {
			return NewError(CodeBadArguments, "That's not a valid amount of gold.")
		}
		target := srv.FindPlayer(args[2])
		if target == nil || target.Location != p.Location || target == p {
			return NewError(CodeLookupUnknownID, "They aren't here.")
		}
		if p.Gold < amount {
			return NewError(CodeShopNoGold, "You don't have that much gold.")
		}
		p.Gold -= amount
		target.Gold += amount
		p.Send(protocol.Success, fmt.Sprintf("You give %d gold to %s.", amount, target.Username))
		target.Send(protocol.Info, fmt.Sprintf("%s gives you %d gold.", p.Username, amount))
		srv.SavePlayer(p)
		srv.SavePlayer(target)
		return nil
	}

	it := p.FindItem(args[0])
	if it == nil {
		return NewError(CodeInventoryNotFound, "You don't have that.")
	}
	target := srv.FindPlayer(args[1])
	if target == nil || target.Location != p.Location || target == p {
		return NewError(CodeLookupUnknownID, "They aren't here.")
	}
	cfg := srv.GameConfig()
	if !target.HasInventorySpace(cfg.Gameplay.MaxInventorySlots, 1) {
		return NewError(CodeInventoryFull, fmt.Sprintf("%s has no room for that.", target.Username))
	}

	p.RemoveItem(it)
	target.AddItem(it, cfg.Gameplay.MaxInventorySlots)
	RefreshCollectProgress(srv, p)
	RefreshCollectProgress(srv, target)
	p.Send(protocol.Success, fmt.Sprintf("You give %s to %s.", it.Name, target.Username))
	target.Send(protocol.Info, fmt.Sprintf("%s gives you %s.", p.Username, it.Name))
	srv.SavePlayer(p)
	srv.SavePlayer(target)
	return nil
}

func cmdEquip(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Equip what?")
	}
	it := p.FindItem(args[0])
	if it == nil {
		return NewError(CodeInventoryNotFound, "You don't have that.")
	}
	if !it.IsEquipment() || !items.ValidSlot(it.Slot) {
		return NewError(CodeEquipmentNotEquippable, "You can't equip that.")
	}
	p.Equip(it)
	p.Send(protocol.Success, fmt.Sprintf("You equip %s.", it.Name))
	srv.SavePlayer(p)
	return nil
}

func cmdUnequip(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Unequip which slot?")
	}
	slot := items.Slot(strings.ToLower(args[0]))
	if !items.ValidSlot(slot) {
		return NewError(CodeBadArguments, "Slots are weapon, armor, shield, accessory.")
	}
	if p.Equipped[slot] == nil {
		return NewError(CodeEquipmentSlotEmpty, "Nothing is equipped there.")
	}
	cfg := srv.GameConfig()
	it := p.Unequip(slot, cfg.Gameplay.MaxInventorySlots)
	if it == nil {
		return NewError(CodeEquipmentNoSpace, "You have no room to hold that.")
	}
	p.Send(protocol.Success, fmt.Sprintf("You unequip %s.", it.Name))
	srv.SavePlayer(p)
	return nil
}

func cmdUse(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Use what?")
	}
	it := p.FindItem(args[0])
	if it == nil {
		return NewError(CodeInventoryNotFound, "You don't have that.")
	}

	if it.IsRecipeScroll() {
		return learnRecipe(srv, p, it)
	}
	if !it.IsConsumable() {
		return NewError(CodeInventoryWrongType, "You can't use that.")
	}

	cfg := srv.GameConfig()
	now := time.Now().UnixMilli()
	if cooldown := int64(cfg.Gameplay.ItemUseCooldownMs); cooldown > 0 && p.LastItemUseAt > 0 {
		if remaining := p.LastItemUseAt + cooldown - now; remaining > 0 {
			return NewError(CodeItemUseCooldown, fmt.Sprintf("You must wait %.1fs before using another item.", float64(remaining)/1000))
		}
	}

	inCombat := srv.IsInCombat(p)
	switch it.UseContextOrDefault() {
	case items.UseCombat:
		if !inCombat {
			return NewError(CodeItemUseWrongContext, "That only works in combat.")
		}
	case items.UsePeaceful:
		if inCombat {
			return NewError(CodeItemUseWrongContext, "Not while you're fighting!")
		}
	}

	switch {
	case it.HealAmount > 0:
		if p.CurrentHealth >= p.MaxHealth() {
			return NewError(CodeItemUseNoEffect, "You are already at full health.")
		}
		p.CurrentHealth = min(p.MaxHealth(), p.CurrentHealth+it.HealAmount)
		p.Send(protocol.Success, fmt.Sprintf("You use %s and recover health. (%d/%d)", it.Name, p.CurrentHealth, p.MaxHealth()))

	case it.ManaAmount > 0:
		if p.CurrentMana >= p.MaxMana() {
			return NewError(CodeItemUseNoEffect, "Your mana is already full.")
		}
		p.CurrentMana = min(p.MaxMana(), p.CurrentMana+it.ManaAmount)
		p.Send(protocol.Success, fmt.Sprintf("You use %s and recover mana. (%d/%d)", it.Name, p.CurrentMana, p.MaxMana()))

	case it.Damage > 0:
		if err := srv.ApplyScrollDamage(p, it); err != nil {
			return err
		}

	case it.TeleportTo != "":
		if inCombat {
			return NewError(CodeItemUseWrongContext, "Not while you're fighting!")
		}
		if p.CurrentMana < it.ManaCost {
			return NewError(CodeItemUseNoMana, "You don't have enough mana.")
		}
		p.CurrentMana -= it.ManaCost
		p.Send(protocol.Success, fmt.Sprintf("You use %s.", it.Name))
		srv.TeleportPlayer(p, it.TeleportTo)

	default:
		return NewError(CodeItemUseNoEffect, "Nothing happens.")
	}

	// Consumed on success only.
	p.RemoveItem(it)
	p.LastItemUseAt = now
	srv.SavePlayer(p)
	return nil
}

func learnRecipe(srv ServerInterface, p *player.Player, it *items.Item) *GameError {
	r := srv.Catalog().Recipes.Get(it.TeachesRecipe)
	if r == nil {
		return NewError(CodeCraftUnknownRecipe, "That recipe is illegible.")
	}
	if p.Level < r.RequiredLevel {
		return NewError(CodeCraftLevel, fmt.Sprintf("You need to be level %d to learn that.", r.RequiredLevel))
	}
	if p.KnownRecipes[r.ID] {
		return NewError(CodeItemUseNoEffect, "You already know that recipe.")
	}
	p.KnownRecipes[r.ID] = true
	p.RemoveItem(it)
	p.Send(protocol.Success, fmt.Sprintf("You learn the recipe: %s.", r.Name))
	srv.SavePlayer(p)
	return nil
}
