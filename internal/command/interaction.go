package command

import (
	"fmt"
	"math"
	"strings"

	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/npc"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
	"github.com/RednibCoding/mudden/internal/quest"
)

func cmdTalk(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Talk to whom?")
	}
	room := srv.World().Room(p.Location)
	n := room.FindNPC(args[0])
	if n == nil {
		return NewError(CodeLookupUnknownID, "There is nobody like that here.")
	}

	// Quest turn-in comes first: any active quest offered by this NPC that is
	// complete gets turned in now.
	for qid := range p.ActiveQuests {
		q := srv.Catalog().Quests.Get(qid)
		if q == nil || q.NPC != n.ID {
			continue
		}
		if done, err := tryCompleteQuest(srv, p, q, n); done || err != nil {
			return err
		}
	}

	// Then the NPC's own quest: progress dialogue if active, an offer if
	// eligible.
	if n.OffersQuest() && !p.CompletedQuests[n.Quest] {
		q := srv.Catalog().Quests.Get(n.Quest)
		if p.HasActiveQuest(q.ID) {
			p.Send(protocol.NPC, fmt.Sprintf("%s: %s", n.Name, q.Dialogue))
			return nil
		}
		if p.Level >= q.RequiredLevel && (q.PrerequisiteQuest == "" || p.CompletedQuests[q.PrerequisiteQuest]) {
			p.ActiveQuests[q.ID] = 0
			RefreshCollectProgress(srv, p)
			dialogue := n.QuestDialogue
			if dialogue == "" {
				dialogue = q.Dialogue
			}
			p.Send(protocol.NPC, fmt.Sprintf("%s: %s", n.Name, dialogue))
			p.Send(protocol.Success, fmt.Sprintf("Quest accepted: %s", q.Name))
			srv.SavePlayer(p)
			return nil
		}
	}

	if n.Healer {
		return healerTalk(srv, p, n)
	}

	p.Send(protocol.NPC, fmt.Sprintf("%s: %s", n.Name, n.Dialogue))
	return nil
}

// tryCompleteQuest turns a quest in if its objective is met. Returns done
// when the talk interaction is fully handled.
func tryCompleteQuest(srv ServerInterface, p *player.Player, q *quest.Quest, n *npc.NPC) (bool, *GameError) {
	cfg := srv.GameConfig()

	complete := false
	switch q.Type {
	case quest.TypeVisit:
		complete = q.Target == n.ID
	case quest.TypeKill:
		complete = p.ActiveQuests[q.ID] >= q.Count
	case quest.TypeCollect:
		complete = p.CountItem(q.Target) >= q.Count
	}
	if !complete {
		return false, nil
	}

	// Item rewards must fit after any collect targets leave the inventory.
	if q.Reward.Item != "" {
		freed := 0
		if q.Type == quest.TypeCollect {
			freed = q.Count
		}
		if len(p.Inventory)-freed+1 > cfg.Gameplay.MaxInventorySlots {
			return true, NewError(CodeQuestNoSpace, "Make room in your inventory first.")
		}
	}

	if q.Type == quest.TypeCollect {
		p.RemoveItemsByID(q.Target, q.Count)
	}
	delete(p.ActiveQuests, q.ID)
	p.CompletedQuests[q.ID] = true

	p.Gold += q.Reward.Gold
	p.XP += q.Reward.XP
	if q.Reward.Item != "" {
		tmpl := srv.Catalog().Items[q.Reward.Item]
		p.AddItem(items.NewInstance(tmpl), cfg.Gameplay.MaxInventorySlots)
	}

	p.Send(protocol.NPC, fmt.Sprintf("%s: %s", n.Name, q.CompletionDialogue))
	reward := fmt.Sprintf("Quest complete: %s! You receive %d gold and %d XP.", q.Name, q.Reward.Gold, q.Reward.XP)
	if q.Reward.Item != "" {
		reward += fmt.Sprintf(" You receive %s.", srv.Catalog().Items[q.Reward.Item].Name)
	}
	p.Send(protocol.Success, reward)

	srv.CheckLevelUp(p)
	srv.SavePlayer(p)
	return true, nil
}

func healerTalk(srv ServerInterface, p *player.Player, n *npc.NPC) *GameError {
	missingHealth := p.MaxHealth() - p.CurrentHealth
	missingMana := p.MaxMana() - p.CurrentMana
	if missingHealth <= 0 && missingMana <= 0 {
		p.Send(protocol.NPC, fmt.Sprintf("%s: %s", n.Name, n.Dialogue))
		return nil
	}

	cfg := srv.GameConfig()
	cost := int(math.Ceil(float64(missingHealth+missingMana) * cfg.Economy.HealerCostFactor / 100))
	if p.Gold < cost {
		p.Send(protocol.NPC, fmt.Sprintf("%s: I can make you whole again for %d gold.", n.Name, cost))
		return nil
	}

	p.Gold -= cost
	p.FullHeal()
	p.Send(protocol.NPC, fmt.Sprintf("%s: There. Good as new.", n.Name))
	p.Send(protocol.Success, fmt.Sprintf("You are fully restored for %d gold.", cost))
	srv.SavePlayer(p)
	return nil
}

func cmdSay(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) == 0 {
		return NewError(CodeBadArguments, "Say what?")
	}
	text := strings.Join(args, " ")

	// A portal keeper in the room turns a matching keyword into paid travel.
	if len(args) == 1 {
		keyword := strings.ToLower(args[0])
		for _, n := range srv.World().Room(p.Location).NPCs {
			portal, ok := n.Portals[keyword]
			if !ok {
				continue
			}
			if p.Gold < portal.Cost {
				p.Send(protocol.NPC, fmt.Sprintf("%s: Passage to %s costs %d gold.", n.Name, keyword, portal.Cost))
				return nil
			}
			p.Gold -= portal.Cost
			p.Send(protocol.NPC, fmt.Sprintf("%s: Safe travels.", n.Name))
			srv.TeleportPlayer(p, portal.Destination)
			srv.SavePlayer(p)
			return nil
		}
	}

	p.Send(protocol.Say, fmt.Sprintf("You say: %s", text))
	srv.Broadcast(p.Location, fmt.Sprintf("%s says: %s", p.Username, text), protocol.Say, p.Username)
	return nil
}

func cmdQuest(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(p.ActiveQuests) == 0 && len(p.CompletedQuests) == 0 {
		p.Send(protocol.Info, "You have no quests.")
		return nil
	}
	var b strings.Builder
	b.WriteString("Active quests:")
	if len(p.ActiveQuests) == 0 {
		b.WriteString("\n  (none)")
	}
	for qid, progress := range p.ActiveQuests {
		q := srv.Catalog().Quests.Get(qid)
		if q == nil {
			continue
		}
		switch q.Type {
		case quest.TypeKill, quest.TypeCollect:
			fmt.Fprintf(&b, "\n  %s (%d/%d)", q.Name, progress, q.Count)
		default:
			fmt.Fprintf(&b, "\n  %s", q.Name)
		}
	}
	fmt.Fprintf(&b, "\nCompleted: %d", len(p.CompletedQuests))
	p.Send(protocol.Info, b.String())
	return nil
}

func cmdHomestone(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Usage: homestone bind|where|recall")
	}
	switch strings.ToLower(args[0]) {
	case "bind":
		room := srv.World().Room(p.Location)
		if !room.Loc.Tags.Homestone {
			return NewError(CodeLookupUnknownID, "There is no homestone here.")
		}
		p.HomestoneLocation = p.Location
		p.Send(protocol.Success, fmt.Sprintf("You attune to the homestone of %s.", room.Loc.Name))
		srv.SavePlayer(p)
		return nil

	case "where":
		if p.HomestoneLocation == "" {
			p.Send(protocol.Info, "You are not attuned to any homestone.")
			return nil
		}
		room := srv.World().Room(p.HomestoneLocation)
		p.Send(protocol.Info, fmt.Sprintf("Your homestone is in %s.", room.Loc.Name))
		return nil

	case "recall":
		if p.HomestoneLocation == "" {
			return NewError(CodeLookupUnknownID, "You are not attuned to any homestone.")
		}
		if srv.IsInCombat(p) {
			return NewError(CodeItemUseWrongContext, "Not while you're fighting!")
		}
		srv.TeleportPlayer(p, p.HomestoneLocation)
		return nil
	}
	return NewError(CodeBadArguments, "Usage: homestone bind|where|recall")
}
