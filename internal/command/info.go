package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
)

func cmdLook(srv ServerInterface, p *player.Player, args []string) *GameError {
	srv.Look(p)
	return nil
}

func cmdMap(srv ServerInterface, p *player.Player, args []string) *GameError {
	rendered := srv.World().RenderMap(p.Location)
	if rendered == "" {
		return NewError(CodeLookupUnknownID, "You are nowhere to be found.")
	}
	p.Send(protocol.Info, rendered)
	return nil
}

func cmdStats(srv ServerInterface, p *player.Player, args []string) *GameError {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, level %d\n", p.Username, p.Level)
	fmt.Fprintf(&b, "XP: %d\n", p.XP)
	fmt.Fprintf(&b, "Health: %d/%d  Mana: %d/%d\n", p.CurrentHealth, p.MaxHealth(), p.CurrentMana, p.MaxMana())
	fmt.Fprintf(&b, "Damage: %d  Defense: %d\n", p.Damage(), p.Defense())
	fmt.Fprintf(&b, "Gold: %d\n", p.Gold)
	fmt.Fprintf(&b, "PvP record: %d wins, %d losses", p.PvPWins, p.PvPLosses)
	p.Send(protocol.Info, b.String())
	return nil
}

func cmdWho(srv ServerInterface, p *player.Player, args []string) *GameError {
	online := srv.OnlinePlayers()
	names := make([]string, 0, len(online))
	for _, other := range online {
		names = append(names, fmt.Sprintf("%s (level %d)", other.Username, other.Level))
	}
	sort.Strings(names)
	p.Send(protocol.Info, fmt.Sprintf("Online (%d):\n%s", len(names), strings.Join(names, "\n")))
	return nil
}

const helpText = `Commands:
  Movement:   north south east west up down (and diagonals), look (l), map (m)
  Items:      inventory (i), equipment (eq), examine (x), get (take), drop,
              give <item|N gold> <player>, use, equip (wear), unequip (remove)
  Combat:     attack (hit), flee (run)
  Commerce:   list (shop), buy, sell
  Crafting:   recipes, craft, materials, harvest
  Quests:     quest (quests), talk (speak)
  Social:     say, whisper (w), reply (r), friend (f) list|add|remove, who
  Trade:      trade start|accept|add|remove|ready|cancel|status
  Other:      stats, homestone bind|where|recall, help, quit,
              reset-account, delete-account`

func cmdHelp(srv ServerInterface, p *player.Player, args []string) *GameError {
	p.Send(protocol.Info, helpText)
	return nil
}
