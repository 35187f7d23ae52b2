package server

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/RednibCoding/mudden/internal/command"
	"github.com/RednibCoding/mudden/internal/enemy"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/leveling"
	"github.com/RednibCoding/mudden/internal/logger"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
	"github.com/RednibCoding/mudden/internal/quest"
	"github.com/RednibCoding/mudden/internal/store"
	"github.com/RednibCoding/mudden/internal/world"
)

// rollVariance applies the configured ±variance to a base amount, never
// dropping below 1.
func rollVariance(base int, variance float64) int {
	if base <= 0 {
		return 1
	}
	if variance <= 0 {
		return base
	}
	lo := float64(base) * (1 - variance)
	hi := float64(base) * (1 + variance)
	rolled := int(math.Round(lo + rand.Float64()*(hi-lo)))
	if rolled < 1 {
		rolled = 1
	}
	return rolled
}

// applyDamage subtracts defense from a variance roll, floored at 1.
func applyDamage(base int, variance float64, defense int) int {
	dmg := rollVariance(base, variance) - defense
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// IsInCombat implements command.ServerInterface: engaged with any room enemy
// or flagged for PvP.
func (s *Server) IsInCombat(p *player.Player) bool {
	return p.InPvPCombat || s.EngagedEnemy(p) != nil
}

// EngagedEnemy returns the first alive enemy in the player's room whose
// fighters include them.
func (s *Server) EngagedEnemy(p *player.Player) *world.EnemyInstance {
	room := s.w.Room(p.Location)
	if room == nil {
		return nil
	}
	for _, e := range room.Enemies {
		if e.Alive() && e.HasFighter(p.Username) {
			return e
		}
	}
	return nil
}

// leaveAllCombat removes the player from every fighter set in their room and
// clears their combat state.
func (s *Server) leaveAllCombat(p *player.Player) {
	if room := s.w.Room(p.Location); room != nil {
		for _, e := range room.Enemies {
			e.RemoveFighter(p.Username)
		}
	}
	p.CombatTarget = ""
	p.InPvPCombat = false
}

// AttackEnemy resolves one player hit against a room enemy and engages the
// attacker; follow-up rounds run on the combat tick.
func (s *Server) AttackEnemy(p *player.Player, enemyID string) *command.GameError {
	room := s.w.Room(p.Location)

	var target *world.EnemyInstance
	for _, e := range s.w.VisibleEnemies(p, p.Location) {
		if e.Template.ID == enemyID {
			target = e
			break
		}
	}
	if target == nil {
		if dead := room.FindEnemy(enemyID, nil); dead != nil && !dead.Alive() {
			return command.NewError(command.CodeCombatTargetDead, "It is already dead.")
		}
		return command.NewError(command.CodeCombatTargetMissing, "There is no such enemy here.")
	}

	target.AddFighter(p.Username)
	p.CombatTarget = enemyID
	s.hitEnemy(p, target, room)
	return nil
}

// hitEnemy lands one player attack round on an engaged enemy.
func (s *Server) hitEnemy(p *player.Player, e *world.EnemyInstance, room *world.Room) {
	cfg := s.cat.Config.Gameplay
	dmg := applyDamage(p.Damage(), cfg.DamageVariance, e.Template.Defense)

	e.CurrentHealth -= dmg
	if e.CurrentHealth < 0 {
		e.CurrentHealth = 0
	}
	e.LastDamagedAt = time.Now()

	s.Broadcast(room.ID(), fmt.Sprintf("%s hits %s for %d (%d/%d)",
		p.Username, e.Template.Name, dmg, e.CurrentHealth, e.Template.MaxHealth), protocol.Combat, "")

	if e.CurrentHealth <= 0 {
		s.handleEnemyDeath(e, room)
	}
}

// ApplyScrollDamage applies a combat scroll's damage verbatim: no variance,
// no defense.
func (s *Server) ApplyScrollDamage(p *player.Player, it *items.Item) *command.GameError {
	e := s.EngagedEnemy(p)
	if e == nil {
		return command.NewError(command.CodeItemUseNoTarget, "You have no target.")
	}
	if p.CurrentMana < it.ManaCost {
		return command.NewError(command.CodeItemUseNoMana, "You don't have enough mana.")
	}
	p.CurrentMana -= it.ManaCost

	room := s.w.Room(p.Location)
	e.CurrentHealth -= it.Damage
	if e.CurrentHealth < 0 {
		e.CurrentHealth = 0
	}
	e.LastDamagedAt = time.Now()

	s.Broadcast(room.ID(), fmt.Sprintf("%s unleashes %s at %s for %d (%d/%d)",
		p.Username, it.Name, e.Template.Name, it.Damage, e.CurrentHealth, e.Template.MaxHealth), protocol.Combat, "")

	if e.CurrentHealth <= 0 {
		s.handleEnemyDeath(e, room)
	}
	return nil
}

// handleEnemyDeath splits rewards across fighters, rolls their drops,
// advances kill quests, and schedules the respawn.
func (s *Server) handleEnemyDeath(e *world.EnemyInstance, room *world.Room) {
	cfg := s.cat.Config
	tmpl := e.Template
	fighters := append([]string(nil), e.Fighters...)

	s.Broadcast(room.ID(), fmt.Sprintf("%s dies!", tmpl.Name), protocol.Combat, "")
	logger.Info("Enemy defeated", "enemy", tmpl.ID, "room", room.ID(), "fighters", len(fighters))

	share := len(fighters)
	if share == 0 {
		share = 1
	}
	goldEach := rollVariance(tmpl.Gold, cfg.Gameplay.DamageVariance) / share
	xpEach := tmpl.XP / share

	for _, name := range fighters {
		f := s.FindPlayer(name)
		if f == nil {
			continue
		}
		if f.CombatTarget == tmpl.ID {
			f.CombatTarget = ""
		}

		f.Gold += goldEach
		f.XP += xpEach
		f.Send(protocol.Loot, fmt.Sprintf("You receive %d gold and %d XP.", goldEach, xpEach))

		// Independent drop rolls per fighter.
		for itemID, drop := range tmpl.ItemDrops {
			if rand.Float64() >= drop.Chance {
				continue
			}
			itTmpl := s.cat.Items[itemID]
			inst := items.NewInstance(itTmpl)
			if f.AddItem(inst, cfg.Gameplay.MaxInventorySlots) {
				f.Send(protocol.Loot, fmt.Sprintf("%s drops %s.", tmpl.Name, itTmpl.Name))
				command.RefreshCollectProgress(s, f)
			} else {
				room.Dropped = append(room.Dropped, &world.GroundItem{Item: inst, DroppedAt: time.Now()})
				f.Send(protocol.Loot, fmt.Sprintf("%s drops %s, but your hands are full. It falls to the ground.", tmpl.Name, itTmpl.Name))
			}
		}
		for matID, drop := range tmpl.MaterialDrops {
			if rand.Float64() >= drop.Chance {
				continue
			}
			lo, hi, _ := enemy.ParseAmountRange(drop.Amount)
			amount := lo
			if hi > lo {
				amount = lo + rand.IntN(hi-lo+1)
			}
			f.AddMaterial(matID, amount)
			mat := s.cat.Materials[matID]
			f.Send(protocol.Loot, fmt.Sprintf("You collect %d %s.", amount, mat.Name))
		}

		if e.Placement.OneTime {
			f.OneTimeEnemies[world.OneTimeKey(room.ID(), tmpl.ID)] = true
		}

		// Kill quest progress.
		for qid, progress := range f.ActiveQuests {
			q := s.cat.Quests.Get(qid)
			if q == nil || q.Type != quest.TypeKill || q.Target != tmpl.ID || progress >= q.Count {
				continue
			}
			f.ActiveQuests[qid] = progress + 1
			f.Send(protocol.Info, fmt.Sprintf("Quest %s: %d/%d", q.Name, progress+1, q.Count))
		}

		s.CheckLevelUp(f)
		s.SavePlayer(f)
	}

	e.Defeat(time.Now())
}

// AttackPlayer resolves one PvP hit. Both parties stay flagged until one
// falls or the room changes.
func (s *Server) AttackPlayer(p, target *player.Player) *command.GameError {
	room := s.w.Room(p.Location)
	if !room.Loc.Tags.PvPAllowed {
		return command.NewError(command.CodeCombatPvPDisallowed, "Fighting is not allowed here.")
	}
	if !target.Alive() {
		return command.NewError(command.CodeCombatTargetDead, "They are already down.")
	}

	p.InPvPCombat = true
	target.InPvPCombat = true

	cfg := s.cat.Config.Gameplay
	dmg := applyDamage(p.Damage(), cfg.DamageVariance, target.Defense())
	target.CurrentHealth -= dmg
	if target.CurrentHealth < 0 {
		target.CurrentHealth = 0
	}

	s.Broadcast(room.ID(), fmt.Sprintf("%s hits %s for %d (%d/%d)",
		p.Username, target.Username, dmg, target.CurrentHealth, target.MaxHealth()), protocol.Combat, "")

	if target.CurrentHealth <= 0 {
		s.handlePvPDefeat(p, target, room)
	}
	return nil
}

// pvpXPReward maps the power ratio between loser and winner to an XP award.
func pvpXPReward(winnerPower, loserPower int) int {
	ratio := float64(loserPower) / float64(max(winnerPower, 1))
	switch {
	case ratio < 0.5: // trivial
		return 5
	case ratio < 0.8: // easy
		return 15
	case ratio < 1.2: // even
		return 30
	case ratio < 1.5: // hard
		return 60
	case ratio < 2.0: // very hard
		return 100
	default: // impossible
		return 200
	}
}

func (s *Server) handlePvPDefeat(winner, loser *player.Player, room *world.Room) {
	cfg := s.cat.Config

	xp := pvpXPReward(winner.Power(), loser.Power())
	loot := int(float64(loser.Gold) * cfg.Gameplay.PvPGoldLootPercentage)
	loser.Gold -= loot
	winner.Gold += loot
	winner.XP += xp
	winner.PvPWins++
	loser.PvPLosses++
	winner.InPvPCombat = false
	loser.InPvPCombat = false

	s.Broadcast(room.ID(), fmt.Sprintf("%s has defeated %s in combat!", winner.Username, loser.Username), protocol.Combat, "")
	winner.Send(protocol.Loot, fmt.Sprintf("You gain %d XP and loot %d gold.", xp, loot))
	s.CheckLevelUp(winner)

	// Loser respawns after a short transition, fully healed, at their
	// homestone or the starting location.
	dest := loser.HomestoneLocation
	if dest == "" || s.w.Room(dest) == nil {
		dest = cfg.PlayerDefaults.StartingLocation
	}
	s.schedulePlayerRespawn(loser, dest)

	s.SavePlayer(winner)
	s.SavePlayer(loser)
}

// handlePlayerDeath runs the PvE death sequence: leave combat, lose gold,
// heal, and respawn after the transition.
func (s *Server) handlePlayerDeath(p *player.Player, killerName string, room *world.Room) {
	cfg := s.cat.Config

	for _, e := range room.Enemies {
		e.RemoveFighter(p.Username)
	}
	p.CombatTarget = ""

	lost := int(math.Floor(float64(p.Gold) * cfg.Gameplay.DeathGoldLossPct))
	p.Gold -= lost

	p.Send(protocol.Combat, fmt.Sprintf("You have been slain by %s!", killerName))
	if lost > 0 {
		p.Send(protocol.Info, fmt.Sprintf("You lose %d gold.", lost))
	}
	s.Broadcast(room.ID(), fmt.Sprintf("%s has been slain by %s!", p.Username, killerName), protocol.Combat, p.Username)

	dest := p.HomestoneLocation
	if dest == "" || s.w.Room(dest) == nil {
		dest = cfg.Gameplay.DeathRespawnLocation
		if dest == "" || s.w.Room(dest) == nil {
			dest = cfg.PlayerDefaults.StartingLocation
		}
	}
	s.schedulePlayerRespawn(p, dest)
	s.SavePlayer(p)
}

// schedulePlayerRespawn fully heals the player and moves them after the
// respawn transition, re-validating attachment when the timer fires.
func (s *Server) schedulePlayerRespawn(p *player.Player, dest string) {
	p.FullHeal()
	username := p.Username

	time.AfterFunc(respawnTransition, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		revived := s.FindPlayer(username)
		if revived == nil {
			return
		}
		from := revived.Location
		revived.Location = dest
		s.Broadcast(from, fmt.Sprintf("%s's body fades away.", username), protocol.System, username)
		s.Broadcast(dest, fmt.Sprintf("%s appears.", username), protocol.System, username)
		revived.Send(protocol.System, "You awaken, restored.")
		s.Look(revived)
		s.SendGameState(revived)
	})
}

// Flee rolls against the configured chance; failure grants the engaged enemy
// a free attack, success exits through a random exit.
func (s *Server) Flee(p *player.Player) *command.GameError {
	engaged := s.EngagedEnemy(p)
	if engaged == nil && !p.InPvPCombat {
		return command.NewError(command.CodeCombatNotInCombat, "You aren't fighting anything.")
	}
	cfg := s.cat.Config.Gameplay
	room := s.w.Room(p.Location)

	if rand.Float64() >= cfg.FleeSuccessChance {
		p.Send(protocol.Combat, "You fail to get away!")
		if engaged != nil {
			s.enemyStrike(engaged, p, room)
		}
		return nil
	}

	if len(room.Loc.Exits) == 0 {
		return command.NewError(command.CodeCombatNowhereToFlee, "There is nowhere to flee!")
	}

	s.leaveAllCombat(p)

	dirs := make([]string, 0, len(room.Loc.Exits))
	for dir := range room.Loc.Exits {
		dirs = append(dirs, dir)
	}
	dir := dirs[rand.IntN(len(dirs))]

	p.Send(protocol.Success, "You flee!")
	return s.MovePlayer(p, dir)
}

// enemyStrike lands one enemy attack on a player.
func (s *Server) enemyStrike(e *world.EnemyInstance, target *player.Player, room *world.Room) {
	cfg := s.cat.Config.Gameplay
	dmg := applyDamage(e.Template.Damage, cfg.DamageVariance, target.Defense())

	target.CurrentHealth -= dmg
	if target.CurrentHealth < 0 {
		target.CurrentHealth = 0
	}

	s.Broadcast(room.ID(), fmt.Sprintf("%s hits %s for %d (%d/%d)",
		e.Template.Name, target.Username, dmg, target.CurrentHealth, target.MaxHealth()), protocol.Combat, "")

	if target.CurrentHealth <= 0 {
		s.handlePlayerDeath(target, e.Template.Name, room)
	}
}

// CheckLevelUp applies any levels the player's XP total has earned. Running
// it repeatedly after one credit is idempotent.
func (s *Server) CheckLevelUp(p *player.Player) {
	prog := s.cat.Config.Progression
	newLevel := leveling.LevelForXP(prog, p.Level, p.XP)
	if newLevel == p.Level {
		return
	}
	gained := newLevel - p.Level
	p.Level = newLevel
	p.BaseHealth += gained * prog.HealthPerLevel
	p.BaseMana += gained * prog.ManaPerLevel
	p.BaseDamage += gained * prog.DamagePerLevel
	p.BaseDefense += gained * prog.DefensePerLevel
	if prog.FullHealOnLevelUp {
		p.FullHeal()
	}
	p.Send(protocol.Success, fmt.Sprintf("*** LEVEL UP! You are now level %d. ***", p.Level))
}

// combatPass runs one combat round for every engaged enemy: auto-continued
// player attacks first, then the enemy's counter-attack against a random
// present fighter. Every deferred action re-validates its preconditions.
func (s *Server) combatPass(now time.Time) {
	for _, room := range s.w.Rooms() {
		for _, e := range room.Enemies {
			if !e.Alive() || len(e.Fighters) == 0 {
				continue
			}

			// Abandon combat nobody has touched in a while.
			if !e.LastDamagedAt.IsZero() && now.Sub(e.LastDamagedAt) > combatTimeout {
				for _, name := range e.Fighters {
					if f := s.FindPlayer(name); f != nil && f.CombatTarget == e.Template.ID {
						f.CombatTarget = ""
					}
				}
				e.Fighters = nil
				continue
			}

			// Prune fighters that disconnected.
			kept := e.Fighters[:0]
			for _, name := range e.Fighters {
				if s.FindPlayer(name) != nil {
					kept = append(kept, name)
				}
			}
			e.Fighters = kept
			if len(e.Fighters) == 0 {
				continue
			}

			// Auto-continued player rounds: fighter present, alive, and still
			// targeting this enemy.
			for _, name := range append([]string(nil), e.Fighters...) {
				f := s.FindPlayer(name)
				if f == nil || f.Location != room.ID() || !f.Alive() || f.CombatTarget != e.Template.ID {
					continue
				}
				if !e.Alive() {
					break
				}
				s.hitEnemy(f, e, room)
			}
			if !e.Alive() {
				continue
			}

			// Enemy counter-attack against a random fighter in the room.
			var present []*player.Player
			for _, name := range e.Fighters {
				if f := s.FindPlayer(name); f != nil && f.Location == room.ID() && f.Alive() {
					present = append(present, f)
				}
			}
			if len(present) == 0 {
				continue
			}
			s.enemyStrike(e, present[rand.IntN(len(present))], room)
		}
	}
}

// persist writes a record outside the game lock.
func (s *Server) persist(rec *store.Record) {
	if err := s.store.Save(rec); err != nil {
		logger.Error("Failed to save player", "player", rec.Username, "error", err)
	}
}
