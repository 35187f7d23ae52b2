package server

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/logger"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
	"github.com/RednibCoding/mudden/internal/store"
)

// usernamePattern: 3 to 12 ASCII letters, case preserved for display,
// compared case-insensitively.
var usernamePattern = regexp.MustCompile(`^[A-Za-z]{3,12}$`)

const minPasswordLength = 3

// handleRegister creates an account and binds the connection to it.
func (s *Server) handleRegister(c *Client, creds protocol.Credentials) {
	now := time.Now()

	if !usernamePattern.MatchString(creds.Username) {
		c.sendError("Usernames are 3-12 letters.")
		return
	}
	if len(creds.Password) < minPasswordLength {
		c.sendError("Password must be at least 3 characters.")
		return
	}

	ok, wait, limited := s.limiter.CheckRegistration(c.ip, now)
	if !ok {
		if limited {
			c.sendError("Too many accounts created from this address.")
		} else {
			c.sendError(fmt.Sprintf("Please wait %d seconds before creating another account.", int(wait.Seconds())+1))
		}
		return
	}

	if s.store.Exists(creds.Username) {
		c.sendError("That username is already taken.")
		return
	}

	hash, err := store.HashPassword(creds.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		c.sendError("An error occurred. Please try again.")
		return
	}

	p := player.New(creds.Username, hash, s.cat.Config.PlayerDefaults)
	if err := s.store.Save(store.FromPlayer(p)); err != nil {
		logger.Error("Failed to save new player", "player", creds.Username, "error", err)
		c.sendError("An error occurred. Please try again.")
		return
	}
	s.limiter.RecordRegistration(c.ip, now)
	logger.Info("Account registered", "player", creds.Username, "ip", c.ip)

	s.bindSession(c, p)
}

// handleLogin authenticates an account and binds the connection to it,
// displacing any existing session for the same username.
func (s *Server) handleLogin(c *Client, creds protocol.Credentials) {
	now := time.Now()

	if blocked, remaining := s.limiter.CheckLogin(c.ip, now); blocked {
		c.sendError(fmt.Sprintf("Too many failed logins. Try again in %d seconds.", int(remaining.Seconds())+1))
		return
	}

	rec, err := s.store.Load(creds.Username)
	if err != nil || !store.CheckPassword(rec.PasswordHash, creds.Password) {
		s.limiter.RecordLoginFailure(c.ip, now)
		c.sendError("Invalid username or password.")
		return
	}

	if rec.BannedUntil > 0 && now.UnixMilli() < rec.BannedUntil {
		hours := (rec.BannedUntil - now.UnixMilli()) / 3600000
		c.sendError(fmt.Sprintf("You are banned for another %d hours.", hours+1))
		return
	}

	s.limiter.RecordLoginSuccess(c.ip)

	// Displace an existing session: save it, notify, disconnect, then bind
	// the new socket.
	s.mu.Lock()
	key := strings.ToLower(creds.Username)
	if old := s.clients[key]; old != nil {
		displaced := s.players[key]
		record := store.FromPlayer(displaced)
		displaced.Detach()
		delete(s.clients, key)
		delete(s.players, key)
		s.mu.Unlock()

		s.persist(record)
		old.sendError("You logged in from another location.")
		old.SendFrame(protocol.FrameForceLogout, nil)
		old.Close()
		logger.Info("Session displaced", "player", creds.Username)
	} else {
		s.mu.Unlock()
	}

	p := rec.Hydrate(s.lookupItem, s.cat.Config.PlayerDefaults)
	if s.w.Room(p.Location) == nil {
		p.Location = s.cat.Config.PlayerDefaults.StartingLocation
	}
	s.bindSession(c, p)
	logger.Info("Player logged in", "player", p.Username, "ip", c.ip)
}

func (s *Server) lookupItem(id string) *items.Item {
	return s.cat.Items[id]
}

// bindSession attaches an authenticated player to the connection and enters
// the world.
func (s *Server) bindSession(c *Client, p *player.Player) {
	s.mu.Lock()
	key := strings.ToLower(p.Username)
	c.p = p
	p.Attach(c)
	s.players[key] = p
	s.clients[key] = c

	c.SendFrame(protocol.FrameAuth, protocol.AuthResponse{Success: true, Player: snapshotPtr(p)})
	s.Broadcast(p.Location, fmt.Sprintf("%s arrives.", p.Username), protocol.System, p.Username)
	s.Look(p)
	s.SendGameState(p)
	s.mu.Unlock()
}

func snapshotPtr(p *player.Player) *protocol.PlayerSnapshot {
	snap := p.Snapshot()
	return &snap
}

// handleDisconnect runs disconnect housekeeping after a connection's reader
// exits: cancel any trade, leave combat, broadcast departure, persist, and
// release the username binding.
func (s *Server) handleDisconnect(c *Client) {
	s.mu.Lock()
	p := c.p
	if p == nil {
		s.mu.Unlock()
		logger.Info("Client disconnected", "ip", c.ip)
		return
	}
	key := strings.ToLower(p.Username)
	if s.clients[key] != c {
		// Displaced or already torn down; the binding belongs to another
		// connection now.
		s.mu.Unlock()
		return
	}

	s.CancelTrade(p, true)
	s.leaveAllCombat(p)
	delete(s.clients, key)
	delete(s.players, key)
	p.Detach()
	s.Broadcast(p.Location, fmt.Sprintf("%s vanishes.", p.Username), protocol.System, p.Username)
	record := store.FromPlayer(p)
	s.mu.Unlock()

	s.persist(record)
	logger.Info("Player disconnected", "player", p.Username)
}
