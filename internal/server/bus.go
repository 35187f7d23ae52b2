package server

import (
	"github.com/RednibCoding/mudden/internal/protocol"
)

// Broadcast sends a typed message to every attached player in a location,
// optionally excluding one username. Callers hold the game lock; delivery is
// a non-blocking enqueue per connection.
func (s *Server) Broadcast(locationID, text string, mt protocol.MessageType, excludeUsername string) {
	for _, p := range s.players {
		if p.Location != locationID {
			continue
		}
		if excludeUsername != "" && p.Username == excludeUsername {
			continue
		}
		p.Send(mt, text)
	}
}

// SendToAll sends a typed message to every attached player.
func (s *Server) SendToAll(text string, mt protocol.MessageType) {
	for _, p := range s.players {
		p.Send(mt, text)
	}
}
