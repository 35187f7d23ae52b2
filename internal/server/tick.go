package server

import (
	"context"
	"fmt"
	"time"

	"github.com/RednibCoding/mudden/internal/protocol"
)

// tickPeriod is the base housekeeping cadence; combat rounds and limiter
// cleanup run on multiples of it.
const tickPeriod = 1 * time.Second

const limiterCleanupEvery = 5 * time.Minute

// RunTicker drives the periodic subsystems until ctx is canceled: enemy
// respawns, dropped-item expiry, combat rounds, and rate-limit cleanup.
// There is no passive health regeneration; recovery comes from potions,
// healers, and leveling.
func (s *Server) RunTicker(ctx context.Context) error {
	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	combatDelay := time.Duration(s.cat.Config.Gameplay.CombatRoundDelayMs) * time.Millisecond
	if combatDelay <= 0 {
		combatDelay = 2 * time.Second
	}
	lastCombat := time.Now()
	lastCleanup := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.mu.Lock()
			s.respawnPass(now)
			s.expiryPass(now)
			if now.Sub(lastCombat) >= combatDelay {
				s.combatPass(now)
				lastCombat = now
			}
			s.mu.Unlock()

			if now.Sub(lastCleanup) >= limiterCleanupEvery {
				s.limiter.Cleanup(now)
				lastCleanup = now
			}
		}
	}
}

// respawnPass revives defeated enemies whose deadline has passed. One-time
// enemies never return.
func (s *Server) respawnPass(now time.Time) {
	def := time.Duration(s.cat.Config.Gameplay.EnemyRespawnTime) * time.Millisecond
	for _, room := range s.w.Rooms() {
		for _, e := range room.Enemies {
			if !e.Defeated || e.Placement.OneTime {
				continue
			}
			if now.Sub(e.LastKilledAt) < e.RespawnTime(def) {
				continue
			}
			e.Respawn()
			s.Broadcast(room.ID(), fmt.Sprintf("A %s appears.", e.Template.Name), protocol.System, "")
		}
	}
}

// expiryPass removes dropped items past their lifetime.
func (s *Server) expiryPass(now time.Time) {
	lifetime := time.Duration(s.cat.Config.Gameplay.DroppedItemLifetimeMs) * time.Millisecond
	if lifetime <= 0 {
		return
	}
	for _, room := range s.w.Rooms() {
		kept := room.Dropped[:0]
		for _, g := range room.Dropped {
			if now.Sub(g.DroppedAt) >= lifetime {
				s.Broadcast(room.ID(), fmt.Sprintf("%s crumbles to dust.", g.Item.Name), protocol.System, "")
				continue
			}
			kept = append(kept, g)
		}
		room.Dropped = kept
	}
}
