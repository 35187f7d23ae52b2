package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/RednibCoding/mudden/internal/command"
	"github.com/RednibCoding/mudden/internal/logger"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
	"github.com/RednibCoding/mudden/internal/store"
)

// SavePlayer captures the record under the game lock and writes it outside
// of it. Writes are atomic per file; the last one wins.
func (s *Server) SavePlayer(p *player.Player) {
	rec := store.FromPlayer(p)
	go s.persist(rec)
}

// DisconnectPlayer sends a control frame and closes the player's connection;
// disconnect housekeeping runs when the reader exits.
func (s *Server) DisconnectPlayer(p *player.Player, frameType string) {
	c := s.clients[strings.ToLower(p.Username)]
	if c == nil {
		return
	}
	c.SendFrame(frameType, nil)
	go func() {
		// Give the writer a moment to flush the control frame.
		time.Sleep(100 * time.Millisecond)
		c.Close()
	}()
}

// DeleteAccount removes the player's record and ends the session. The
// binding is released first so disconnect housekeeping doesn't re-save.
func (s *Server) DeleteAccount(p *player.Player) error {
	key := strings.ToLower(p.Username)
	c := s.clients[key]

	s.CancelTrade(p, true)
	s.leaveAllCombat(p)
	s.Broadcast(p.Location, fmt.Sprintf("%s vanishes.", p.Username), protocol.System, p.Username)
	delete(s.clients, key)
	delete(s.players, key)
	p.Detach()

	if err := s.store.Delete(p.Username); err != nil {
		logger.Error("Failed to delete account", "player", p.Username, "error", err)
		return err
	}
	logger.Info("Account deleted", "player", p.Username)

	if c != nil {
		c.SendFrame(protocol.FrameLogout, nil)
		go func() {
			time.Sleep(100 * time.Millisecond)
			c.Close()
		}()
	}
	return nil
}

// BanPlayer bans an account for a number of hours, disconnecting it if
// online. Offline accounts are banned on disk.
func (s *Server) BanPlayer(name string, hours int) *command.GameError {
	until := time.Now().Add(time.Duration(hours) * time.Hour).UnixMilli()

	if target := s.FindPlayer(name); target != nil {
		target.BannedUntil = until
		target.Send(protocol.System, fmt.Sprintf("You have been banned for %d hours.", hours))
		s.SavePlayer(target)
		s.DisconnectPlayer(target, protocol.FrameForceLogout)
		logger.Info("Player banned", "player", target.Username, "hours", hours)
		return nil
	}

	rec, err := s.store.Load(name)
	if err != nil {
		return command.NewError(command.CodeLookupUnknownID, "No such player.")
	}
	rec.BannedUntil = until
	go s.persist(rec)
	logger.Info("Player banned", "player", rec.Username, "hours", hours, "online", false)
	return nil
}

// KickPlayer force-disconnects an online player. Reports whether they were
// found.
func (s *Server) KickPlayer(name string) bool {
	target := s.FindPlayer(name)
	if target == nil {
		return false
	}
	target.Send(protocol.System, "You have been kicked from the server.")
	s.DisconnectPlayer(target, protocol.FrameForceLogout)
	logger.Info("Player kicked", "player", target.Username)
	return true
}
