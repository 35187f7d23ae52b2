package server

import (
	"fmt"

	"github.com/RednibCoding/mudden/internal/command"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
)

// MovePlayer walks an exit: cancels any trade, clears PvP state, updates the
// location, and announces the transition on both sides.
func (s *Server) MovePlayer(p *player.Player, dir string) *command.GameError {
	room := s.w.Room(p.Location)
	dest, ok := room.Loc.Exits[dir]
	if !ok {
		return command.NewError(command.CodeMovementNoExit, "You can't go that way.")
	}

	s.CancelTrade(p, true)
	p.InPvPCombat = false

	from := p.Location
	p.Location = dest
	s.Broadcast(from, fmt.Sprintf("%s leaves %s.", p.Username, dir), protocol.System, p.Username)
	s.Broadcast(dest, fmt.Sprintf("%s arrives.", p.Username), protocol.System, p.Username)

	s.Look(p)
	s.SendGameState(p)
	s.SavePlayer(p)
	return nil
}

// TeleportPlayer relocates a player without using an exit (portals, scrolls,
// homestone recall, GM teleport).
func (s *Server) TeleportPlayer(p *player.Player, dest string) {
	if s.w.Room(dest) == nil {
		return
	}
	s.CancelTrade(p, true)
	p.InPvPCombat = false

	from := p.Location
	p.Location = dest
	s.Broadcast(from, fmt.Sprintf("%s vanishes in a flash of light.", p.Username), protocol.System, p.Username)
	s.Broadcast(dest, fmt.Sprintf("%s appears in a flash of light.", p.Username), protocol.System, p.Username)

	s.Look(p)
	s.SendGameState(p)
	s.SavePlayer(p)
}
