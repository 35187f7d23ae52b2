package server

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
)

// woundDescriptor maps an enemy's remaining health to the coarse state shown
// in room listings.
func woundDescriptor(current, max int) string {
	ratio := float64(current) / float64(max)
	switch {
	case ratio < 0.25:
		return " (badly wounded)"
	case ratio < 0.5:
		return " (wounded)"
	case ratio < 0.75:
		return " (lightly wounded)"
	default:
		return ""
	}
}

// Look renders the player's current room and sends it as an info message.
func (s *Server) Look(p *player.Player) {
	room := s.w.Room(p.Location)
	if room == nil {
		return
	}
	now := time.Now()
	var b strings.Builder

	header := room.Loc.Name
	var tags []string
	if room.Loc.Tags.Homestone {
		tags = append(tags, "Home")
	}
	if room.Shop != nil {
		tags = append(tags, "Shop")
	}
	if room.Loc.Tags.PvPAllowed {
		tags = append(tags, "PvP")
	}
	if len(tags) > 0 {
		header += " [" + strings.Join(tags, ", ") + "]"
	}
	fmt.Fprintf(&b, "%s\n%s\n", header, room.Loc.Description)

	b.WriteString("\nExits:")
	if len(room.Loc.Exits) == 0 {
		b.WriteString("\n  (none)")
	}
	dirs := make([]string, 0, len(room.Loc.Exits))
	for dir := range room.Loc.Exits {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		dest := s.w.Room(room.Loc.Exits[dir])
		fmt.Fprintf(&b, "\n  %-10s %s", dir, dest.Loc.Name)
	}

	var people []string
	for _, n := range room.NPCs {
		people = append(people, n.Name)
	}
	for _, other := range s.PlayersIn(p.Location) {
		if other != p {
			people = append(people, other.Username)
		}
	}
	if len(people) > 0 {
		fmt.Fprintf(&b, "\n\nPeople: %s", strings.Join(people, ", "))
	}

	enemies := s.w.VisibleEnemies(p, p.Location)
	if len(enemies) > 0 {
		b.WriteString("\n\nEnemies:")
		for _, e := range enemies {
			fmt.Fprintf(&b, "\n  %s%s", e.Template.Name, woundDescriptor(e.CurrentHealth, e.Template.MaxHealth))
		}
	}

	ground := s.w.VisibleGroundItems(p, p.Location, now)
	if len(ground) > 0 {
		b.WriteString("\n\nItems:")
		for _, g := range ground {
			fmt.Fprintf(&b, "\n  %s", g.Item.Name)
		}
	}

	if len(room.Loc.Resources) > 0 {
		b.WriteString("\n\nResources:")
		for _, node := range room.Loc.Resources {
			mat := s.cat.Materials[node.MaterialID]
			key := p.Location + "_" + node.MaterialID
			state := "ready"
			if last, ok := p.LastHarvest[key]; ok {
				if remaining := last + int64(node.Cooldown) - now.UnixMilli(); remaining > 0 {
					state = fmt.Sprintf("available in %d minutes", remaining/60000+1)
				}
			}
			fmt.Fprintf(&b, "\n  %s (%s)", mat.Name, state)
		}
	}

	p.Send(protocol.Info, b.String())
}

// SendGameState ships the structured player + room snapshot the client uses
// for name-to-ID resolution.
func (s *Server) SendGameState(p *player.Player) {
	room := s.w.Room(p.Location)
	if room == nil {
		return
	}
	now := time.Now()

	snap := protocol.RoomSnapshot{
		ID:          room.ID(),
		Name:        room.Loc.Name,
		Description: room.Loc.Description,
		Exits:       make(map[string]string, len(room.Loc.Exits)),
		Homestone:   room.Loc.Tags.Homestone,
		PvPAllowed:  room.Loc.Tags.PvPAllowed,
	}
	for dir, dest := range room.Loc.Exits {
		snap.Exits[dir] = dest
	}
	if room.Shop != nil {
		snap.ShopID = room.Shop.ID
	}
	for _, n := range room.NPCs {
		snap.NPCs = append(snap.NPCs, protocol.EntityRef{ID: n.ID, Name: n.Name})
	}
	for _, other := range s.PlayersIn(p.Location) {
		if other != p {
			snap.Players = append(snap.Players, other.Username)
		}
	}
	for _, e := range s.w.VisibleEnemies(p, p.Location) {
		snap.Enemies = append(snap.Enemies, protocol.EnemyRef{
			ID:        e.Template.ID,
			Name:      e.Template.Name,
			Health:    e.CurrentHealth,
			MaxHealth: e.Template.MaxHealth,
		})
	}
	for _, g := range s.w.VisibleGroundItems(p, p.Location, now) {
		snap.Items = append(snap.Items, protocol.EntityRef{ID: g.Item.ID, Name: g.Item.Name})
	}
	for _, node := range room.Loc.Resources {
		mat := s.cat.Materials[node.MaterialID]
		readyIn := int64(0)
		if last, ok := p.LastHarvest[p.Location+"_"+node.MaterialID]; ok {
			if remaining := last + int64(node.Cooldown) - now.UnixMilli(); remaining > 0 {
				readyIn = remaining
			}
		}
		snap.Resources = append(snap.Resources, protocol.ResourceRef{
			MaterialID: node.MaterialID,
			Name:       mat.Name,
			ReadyInMs:  readyIn,
		})
	}

	p.SendFrame(protocol.FrameGameState, protocol.GameState{Player: p.Snapshot(), Room: snap})
}
