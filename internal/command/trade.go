package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
)

func cmdTrade(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) == 0 {
		return NewError(CodeBadArguments, "Usage: trade start|accept|add|remove|ready|cancel|status")
	}
	switch strings.ToLower(args[0]) {
	case "start":
		if len(args) != 2 {
			return NewError(CodeBadArguments, "Trade with whom?")
		}
		return tradeStart(srv, p, args[1])
	case "accept":
		return tradeAccept(srv, p)
	case "add":
		return tradeEdit(srv, p, args[1:], true)
	case "remove":
		return tradeEdit(srv, p, args[1:], false)
	case "ready":
		return tradeReady(srv, p)
	case "cancel":
		if p.Trade == nil {
			return NewError(CodeTradeNotTrading, "You aren't trading.")
		}
		srv.CancelTrade(p, true)
		return nil
	case "status":
		return tradeStatus(srv, p)
	}
	return NewError(CodeBadArguments, "Usage: trade start|accept|add|remove|ready|cancel|status")
}

func tradeStart(srv ServerInterface, p *player.Player, targetName string) *GameError {
	target := srv.FindPlayer(targetName)
	if target == nil {
		return NewError(CodeTradePartnerOffline, "They aren't online.")
	}
	if target == p {
		return NewError(CodeTradeSelf, "You can't trade with yourself.")
	}
	if target.Location != p.Location {
		return NewError(CodeTradeSameRoom, "You must be in the same place to trade.")
	}
	if p.Trade != nil || target.Trade != nil {
		return NewError(CodeTradeAlreadyTrading, "A trade is already in progress.")
	}

	target.Trade = &player.TradeState{With: p.Username, InitiatedBy: p.Username, Pending: true}
	p.Send(protocol.Info, fmt.Sprintf("You offer to trade with %s.", target.Username))
	target.Send(protocol.Info, fmt.Sprintf("%s wants to trade with you. Type 'trade accept' to begin.", p.Username))
	return nil
}

func tradeAccept(srv ServerInterface, p *player.Player) *GameError {
	if p.Trade == nil || !p.Trade.Pending {
		return NewError(CodeTradeNotTrading, "You have no pending trade offer.")
	}
	partner := srv.FindPlayer(p.Trade.With)
	if partner == nil {
		p.Trade = nil
		return NewError(CodeTradePartnerOffline, "They are no longer online.")
	}

	p.Trade.Pending = false
	partner.Trade = &player.TradeState{With: p.Username, InitiatedBy: p.Trade.InitiatedBy}
	p.Send(protocol.Success, fmt.Sprintf("You are now trading with %s.", partner.Username))
	partner.Send(protocol.Success, fmt.Sprintf("%s accepted your trade offer.", p.Username))
	return nil
}

// activeTrade resolves the caller's active (non-pending) trade and partner.
func activeTrade(srv ServerInterface, p *player.Player) (*player.Player, *GameError) {
	if p.Trade == nil || p.Trade.Pending {
		return nil, NewError(CodeTradeNotTrading, "You aren't in an active trade.")
	}
	partner := srv.FindPlayer(p.Trade.With)
	if partner == nil || partner.Trade == nil {
		srv.CancelTrade(p, false)
		return nil, NewError(CodeTradePartnerOffline, "Your trade partner is gone.")
	}
	return partner, nil
}

// tradeEdit handles add/remove of items and gold. Every edit resets both
// ready flags so a stale accept can't commit a changed offer.
func tradeEdit(srv ServerInterface, p *player.Player, args []string, adding bool) *GameError {
	partner, err := activeTrade(srv, p)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return NewError(CodeBadArguments, "Add or remove what?")
	}

	verb := "add"
	if !adding {
		verb = "remove"
	}

	// Gold form: trade add N gold.
	if len(args) == 2 && strings.EqualFold(args[1], "gold") {
		amount, convErr := strconv.Atoi(args[0])
		if convErr != nil || amount <= 0 {
			return NewError(CodeBadArguments, "That's not a valid amount of gold.")
		}
		if adding {
			if p.Gold < amount {
				return NewError(CodeShopNoGold, "You don't have that much gold.")
			}
			p.Gold -= amount
			p.Trade.Gold += amount
		} else {
			if p.Trade.Gold < amount {
				return NewError(CodeBadArguments, "That much gold isn't in the trade.")
			}
			p.Trade.Gold -= amount
			p.Gold += amount
		}
		p.Trade.Ready = false
		partner.Trade.Ready = false
		p.Send(protocol.Info, fmt.Sprintf("You %s %d gold. (offering %d)", verb, amount, p.Trade.Gold))
		partner.Send(protocol.Info, fmt.Sprintf("%s now offers %d gold.", p.Username, p.Trade.Gold))
		return nil
	}

	if len(args) != 1 {
		return NewError(CodeBadArguments, "Add or remove what?")
	}
	id := args[0]

	if adding {
		it := p.FindItem(id)
		if it == nil {
			return NewError(CodeInventoryNotFound, "You don't have that.")
		}
		p.AddEscrowItem(it)
		p.Trade.Ready = false
		partner.Trade.Ready = false
		p.Send(protocol.Info, fmt.Sprintf("You add %s to the trade.", it.Name))
		partner.Send(protocol.Info, fmt.Sprintf("%s adds %s to the trade.", p.Username, it.Name))
		return nil
	}

	if !p.HasInventorySpace(srv.GameConfig().Gameplay.MaxInventorySlots, 1) {
		return NewError(CodeInventoryFull, "Your inventory is full.")
	}
	it := p.RemoveEscrowItem(id)
	if it == nil {
		return NewError(CodeInventoryNotFound, "That item isn't in the trade.")
	}
	p.Trade.Ready = false
	partner.Trade.Ready = false
	p.Send(protocol.Info, fmt.Sprintf("You take %s back.", it.Name))
	partner.Send(protocol.Info, fmt.Sprintf("%s takes %s back.", p.Username, it.Name))
	return nil
}

func tradeReady(srv ServerInterface, p *player.Player) *GameError {
	partner, err := activeTrade(srv, p)
	if err != nil {
		return err
	}
	p.Trade.Ready = true
	p.Send(protocol.Info, "You are ready to trade.")
	partner.Send(protocol.Info, fmt.Sprintf("%s is ready to trade.", p.Username))

	if partner.Trade.Ready {
		return srv.ExecuteTrade(p)
	}
	return nil
}

func tradeStatus(srv ServerInterface, p *player.Player) *GameError {
	if p.Trade == nil {
		return NewError(CodeTradeNotTrading, "You aren't trading.")
	}
	if p.Trade.Pending {
		p.Send(protocol.Info, fmt.Sprintf("Pending trade offer from %s. Type 'trade accept' to begin.", p.Trade.With))
		return nil
	}
	partner, err := activeTrade(srv, p)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Trading with %s.\nYou offer: %d gold", partner.Username, p.Trade.Gold)
	for _, it := range p.Trade.Items {
		fmt.Fprintf(&b, ", %s", it.Name)
	}
	fmt.Fprintf(&b, "\nThey offer: %d gold", partner.Trade.Gold)
	for _, it := range partner.Trade.Items {
		fmt.Fprintf(&b, ", %s", it.Name)
	}
	fmt.Fprintf(&b, "\nReady: you %v, them %v", p.Trade.Ready, partner.Trade.Ready)
	p.Send(protocol.Info, b.String())
	return nil
}
