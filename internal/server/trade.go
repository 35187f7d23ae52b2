package server

import (
	"fmt"
	"strings"

	"github.com/RednibCoding/mudden/internal/command"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
)

// CancelTrade tears down the player's trade, restoring both escrows. Safe to
// call when no trade exists; driven by the cancel command, disconnects, and
// room changes.
func (s *Server) CancelTrade(p *player.Player, notifyPartner bool) {
	if p.Trade == nil {
		return
	}
	partnerName := p.Trade.With
	wasPending := p.Trade.Pending
	p.RestoreEscrow()

	partner := s.FindPlayer(partnerName)
	if partner != nil && partner.Trade != nil && strings.EqualFold(partner.Trade.With, p.Username) {
		partner.RestoreEscrow()
		if notifyPartner {
			partner.Send(protocol.System, fmt.Sprintf("%s canceled the trade.", p.Username))
		}
		s.SavePlayer(partner)
	}

	if !wasPending {
		p.Send(protocol.System, "Trade canceled.")
	}
	s.SavePlayer(p)
}

// ExecuteTrade commits a fully-ready trade atomically, after verifying both
// sides have room for what they are receiving.
func (s *Server) ExecuteTrade(p *player.Player) *command.GameError {
	if p.Trade == nil || p.Trade.Pending {
		return command.NewError(command.CodeTradeNotTrading, "You aren't in an active trade.")
	}
	partner := s.FindPlayer(p.Trade.With)
	if partner == nil || partner.Trade == nil {
		s.CancelTrade(p, false)
		return command.NewError(command.CodeTradePartnerOffline, "Your trade partner is gone.")
	}
	if !p.Trade.Ready || !partner.Trade.Ready {
		return nil
	}

	cap := s.cat.Config.Gameplay.MaxInventorySlots
	if len(p.Inventory)+len(partner.Trade.Items) > cap || len(partner.Inventory)+len(p.Trade.Items) > cap {
		p.Send(protocol.Error, "Trade failed: not enough inventory space.")
		partner.Send(protocol.Error, "Trade failed: not enough inventory space.")
		s.CancelTrade(p, false)
		return command.NewError(command.CodeTradeNoSpace, "Not enough inventory space.")
	}

	myItems, myGold := p.Trade.Items, p.Trade.Gold
	theirItems, theirGold := partner.Trade.Items, partner.Trade.Gold

	p.Inventory = append(p.Inventory, theirItems...)
	p.Gold += theirGold
	partner.Inventory = append(partner.Inventory, myItems...)
	partner.Gold += myGold
	p.Trade = nil
	partner.Trade = nil

	p.Send(protocol.Success, tradeSummary(partner.Username, theirItems, theirGold))
	partner.Send(protocol.Success, tradeSummary(p.Username, myItems, myGold))

	command.RefreshCollectProgress(s, p)
	command.RefreshCollectProgress(s, partner)
	s.SavePlayer(p)
	s.SavePlayer(partner)
	return nil
}

func tradeSummary(from string, received []*items.Item, gold int) string {
	parts := make([]string, 0, len(received)+1)
	for _, it := range received {
		parts = append(parts, it.Name)
	}
	if gold > 0 {
		parts = append(parts, fmt.Sprintf("%d gold", gold))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Trade with %s complete. You received nothing.", from)
	}
	return fmt.Sprintf("Trade with %s complete. You received: %s.", from, strings.Join(parts, ", "))
}
