// Package server owns the session layer, the shared-world mutation engine,
// and the tick driver. All shared game state is serialized under one game
// lock held for the duration of each command handler and tick pass; outbound
// frames go through per-connection writer queues so the lock is never held
// across socket I/O.
package server

import (
	"strings"
	"sync"
	"time"

	"github.com/RednibCoding/mudden/internal/catalog"
	"github.com/RednibCoding/mudden/internal/command"
	"github.com/RednibCoding/mudden/internal/config"
	"github.com/RednibCoding/mudden/internal/game"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
	"github.com/RednibCoding/mudden/internal/store"
	"github.com/RednibCoding/mudden/internal/world"
)

// combatTimeout abandons combat nobody has touched for this long.
const combatTimeout = 5 * time.Minute

// respawnTransition is the pause between a player's death and respawn.
const respawnTransition = 1 * time.Second

// Server is the authoritative game server.
type Server struct {
	cfg   *config.ServerConfig
	cat   *catalog.Catalog
	w     *world.World
	store *store.Store

	// mu is the game lock guarding players, clients, and all world instance
	// state.
	mu      sync.Mutex
	players map[string]*player.Player // lowercase username -> attached record
	clients map[string]*Client        // lowercase username -> connection

	limiter *RateLimiter

	startTime time.Time
}

// interface conformance for the command dispatcher
var _ command.ServerInterface = (*Server)(nil)

// New wires a server over a loaded catalog, world, and player store.
func New(cfg *config.ServerConfig, cat *catalog.Catalog, w *world.World, st *store.Store) *Server {
	return &Server{
		cfg:       cfg,
		cat:       cat,
		w:         w,
		store:     st,
		players:   make(map[string]*player.Player),
		clients:   make(map[string]*Client),
		limiter:   NewRateLimiter(cat.Config.RateLimit),
		startTime: time.Now(),
	}
}

// GameConfig implements command.ServerInterface.
func (s *Server) GameConfig() *game.Config { return s.cat.Config }

// Catalog implements command.ServerInterface.
func (s *Server) Catalog() *catalog.Catalog { return s.cat }

// World implements command.ServerInterface.
func (s *Server) World() *world.World { return s.w }

// Uptime reports how long the server has been running.
func (s *Server) Uptime() time.Duration { return time.Since(s.startTime) }

// FindPlayer returns the attached player with the given name,
// case-insensitive, or nil. Callers hold the game lock.
func (s *Server) FindPlayer(name string) *player.Player {
	return s.players[strings.ToLower(name)]
}

// OnlinePlayers returns every attached player. Callers hold the game lock.
func (s *Server) OnlinePlayers() []*player.Player {
	out := make([]*player.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	return out
}

// PlayersIn returns the attached players in a location. Callers hold the
// game lock.
func (s *Server) PlayersIn(locationID string) []*player.Player {
	var out []*player.Player
	for _, p := range s.players {
		if p.Location == locationID {
			out = append(out, p)
		}
	}
	return out
}

// HandleCommand runs one command line for an attached player under the game
// lock.
func (s *Server) HandleCommand(p *player.Player, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	command.Dispatch(s, p, line)
}

// Shutdown saves every attached player and closes their connections.
func (s *Server) Shutdown() {
	s.mu.Lock()
	records := make([]*store.Record, 0, len(s.players))
	for _, p := range s.players {
		records = append(records, store.FromPlayer(p))
	}
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, rec := range records {
		s.persist(rec)
	}
	for _, c := range clients {
		c.SendFrame(protocol.FrameLogout, nil)
		c.Close()
	}
}
