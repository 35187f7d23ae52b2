package command

import (
	"fmt"
	"strings"

	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
	"github.com/RednibCoding/mudden/internal/shop"
)

func roomShop(srv ServerInterface, p *player.Player) *shop.Shop {
	room := srv.World().Room(p.Location)
	if room == nil {
		return nil
	}
	return room.Shop
}

func cmdList(srv ServerInterface, p *player.Player, args []string) *GameError {
	s := roomShop(srv, p)
	if s == nil {
		return NewError(CodeShopNoShop, "There is no shop here.")
	}
	cfg := srv.GameConfig()

	var b strings.Builder
	fmt.Fprintf(&b, "%s:", s.Name)
	for _, id := range s.Items {
		it := srv.Catalog().Items[id]
		price := s.BuyPrice(it.Value, cfg.Economy.ShopBuyMultiplier)
		fmt.Fprintf(&b, "\n  %-24s %5d gold", it.Name, price)
		if it.IsEquipment() {
			var stats []string
			if it.Stats.Damage != 0 {
				stats = append(stats, fmt.Sprintf("dmg +%d", it.Stats.Damage))
			}
			if it.Stats.Defense != 0 {
				stats = append(stats, fmt.Sprintf("def +%d", it.Stats.Defense))
			}
			if it.Stats.Health != 0 {
				stats = append(stats, fmt.Sprintf("hp +%d", it.Stats.Health))
			}
			if it.Stats.Mana != 0 {
				stats = append(stats, fmt.Sprintf("mana +%d", it.Stats.Mana))
			}
			if len(stats) > 0 {
				fmt.Fprintf(&b, "  (%s)", strings.Join(stats, ", "))
			}
		}
	}
	p.Send(protocol.Info, b.String())
	return nil
}

func cmdBuy(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Buy what?")
	}
	s := roomShop(srv, p)
	if s == nil {
		return NewError(CodeShopNoShop, "There is no shop here.")
	}
	if !s.Stocks(args[0]) {
		return NewError(CodeShopNotStocked, "The shop doesn't sell that.")
	}
	cfg := srv.GameConfig()
	tmpl := srv.Catalog().Items[args[0]]
	price := s.BuyPrice(tmpl.Value, cfg.Economy.ShopBuyMultiplier)

	if !p.HasInventorySpace(cfg.Gameplay.MaxInventorySlots, 1) {
		return NewError(CodeInventoryFull, "Your inventory is full.")
	}
	if p.Gold < price {
		return NewError(CodeShopNoGold, fmt.Sprintf("You need %d gold for that.", price))
	}

	p.Gold -= price
	p.AddItem(items.NewInstance(tmpl), cfg.Gameplay.MaxInventorySlots)
	RefreshCollectProgress(srv, p)
	p.Send(protocol.Success, fmt.Sprintf("You buy %s for %d gold.", tmpl.Name, price))
	srv.SavePlayer(p)
	return nil
}

func cmdSell(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Sell what?")
	}
	s := roomShop(srv, p)
	if s == nil {
		return NewError(CodeShopNoShop, "There is no shop here.")
	}
	it := p.FindItem(args[0])
	if it == nil {
		return NewError(CodeInventoryNotFound, "You don't have that.")
	}
	cfg := srv.GameConfig()
	price := s.SellPrice(it.Value, cfg.Economy.ShopSellMultiplier)

	p.RemoveItem(it)
	p.Gold += price
	RefreshCollectProgress(srv, p)
	p.Send(protocol.Success, fmt.Sprintf("You sell %s for %d gold.", it.Name, price))
	srv.SavePlayer(p)
	return nil
}
