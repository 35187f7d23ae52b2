package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RednibCoding/mudden/internal/command"
	"github.com/RednibCoding/mudden/internal/items"
)

// TestKillAndSplit is scenario S1: two fighters share a wolf's rewards and
// roll their drops independently.
func TestKillAndSplit(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "forest")
	bob, _ := join(s, "Bob", "forest")

	wolf := s.w.Room("forest").Enemies[0]

	require.Nil(t, s.AttackEnemy(alice, "wolf")) // 7 left
	require.Nil(t, s.AttackEnemy(bob, "wolf"))   // 4 left
	assert.Equal(t, []string{"Alice", "Bob"}, wolf.Fighters)

	require.Nil(t, s.AttackEnemy(alice, "wolf")) // 1 left
	require.True(t, wolf.Alive())
	require.Nil(t, s.AttackEnemy(bob, "wolf")) // dead

	assert.False(t, wolf.Alive())
	assert.Empty(t, wolf.Fighters, "fighters clear on defeat")

	// floor(4/2) gold and floor(6/2) xp each, plus a guaranteed pelt each.
	assert.Equal(t, 25+2, alice.Gold)
	assert.Equal(t, 25+2, bob.Gold)
	assert.Equal(t, 3, alice.XP)
	assert.Equal(t, 3, bob.XP)
	assert.Equal(t, 1, alice.Materials["wolf_pelt"])
	assert.Equal(t, 1, bob.Materials["wolf_pelt"])
}

func TestEnemyRespawn(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "forest")
	wolf := s.w.Room("forest").Enemies[0]

	wolf.CurrentHealth = 1
	require.Nil(t, s.AttackEnemy(alice, "wolf"))
	require.False(t, wolf.Alive())

	// Before the deadline nothing happens; after it the wolf is back whole.
	s.respawnPass(wolf.LastKilledAt.Add(100 * time.Millisecond))
	assert.False(t, wolf.Alive())
	s.respawnPass(wolf.LastKilledAt.Add(600 * time.Millisecond))
	assert.True(t, wolf.Alive())
	assert.Equal(t, 10, wolf.CurrentHealth)
	assert.Empty(t, wolf.Fighters)
}

func TestAttackMissingEnemy(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")

	err := s.AttackEnemy(alice, "wolf")
	require.NotNil(t, err)
	assert.Equal(t, command.CodeCombatTargetMissing, err.Code)
}

func TestAttackDeadEnemy(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "forest")
	wolf := s.w.Room("forest").Enemies[0]
	wolf.Defeat(time.Now())

	err := s.AttackEnemy(alice, "wolf")
	require.NotNil(t, err)
	assert.Equal(t, command.CodeCombatTargetDead, err.Code)
}

func TestCombatPassCounterAttack(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "forest")
	wolf := s.w.Room("forest").Enemies[0]

	require.Nil(t, s.AttackEnemy(alice, "wolf"))
	healthBefore := alice.CurrentHealth
	wolfBefore := wolf.CurrentHealth

	s.combatPass(time.Now())

	// Alice auto-attacked again and the wolf struck back.
	assert.Less(t, wolf.CurrentHealth, wolfBefore)
	assert.Less(t, alice.CurrentHealth, healthBefore)
}

func TestCombatPassSkipsDepartedFighters(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "forest")
	wolf := s.w.Room("forest").Enemies[0]

	require.Nil(t, s.AttackEnemy(alice, "wolf"))
	alice.Location = "town_square"
	healthBefore := alice.CurrentHealth
	wolfBefore := wolf.CurrentHealth

	s.combatPass(time.Now())

	assert.Equal(t, healthBefore, alice.CurrentHealth, "absent fighters take no counter-attacks")
	assert.Equal(t, wolfBefore, wolf.CurrentHealth, "absent fighters land no rounds")
}

func TestCombatTimeoutClearsFighters(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "forest")
	wolf := s.w.Room("forest").Enemies[0]

	require.Nil(t, s.AttackEnemy(alice, "wolf"))
	require.NotEmpty(t, wolf.Fighters)

	s.combatPass(time.Now().Add(6 * time.Minute))
	assert.Empty(t, wolf.Fighters)
	assert.Empty(t, alice.CombatTarget)
}

func TestFleeWithExit(t *testing.T) {
	s := newTestServer(t, nil)
	alice, rec := join(s, "Alice", "forest")
	wolf := s.w.Room("forest").Enemies[0]

	require.Nil(t, s.AttackEnemy(alice, "wolf"))
	require.Nil(t, s.Flee(alice))

	assert.Equal(t, "town_square", alice.Location)
	assert.False(t, wolf.HasFighter("Alice"))
	assert.True(t, rec.hasText("You flee!"))
}

func TestFleeWithZeroExits(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "pit")

	require.Nil(t, s.AttackEnemy(alice, "wolf"))
	err := s.Flee(alice)
	require.NotNil(t, err)
	assert.Equal(t, command.CodeCombatNowhereToFlee, err.Code)
	assert.Equal(t, "pit", alice.Location)
}

func TestFleeNotInCombat(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")

	err := s.Flee(alice)
	require.NotNil(t, err)
	assert.Equal(t, command.CodeCombatNotInCombat, err.Code)
}

func TestCheckLevelUpIdempotent(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")

	alice.XP = 250 // enough for level 3 with base 100, multiplier 1.5
	s.CheckLevelUp(alice)
	require.Equal(t, 3, alice.Level)
	healthAfter := alice.BaseHealth

	s.CheckLevelUp(alice)
	assert.Equal(t, 3, alice.Level)
	assert.Equal(t, healthAfter, alice.BaseHealth, "re-running grants nothing")
}

func TestLevelUpAppliesPerLevelGains(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")
	prog := s.cat.Config.Progression

	baseHealth := alice.BaseHealth
	alice.XP = 100
	s.CheckLevelUp(alice)

	require.Equal(t, 2, alice.Level)
	assert.Equal(t, baseHealth+prog.HealthPerLevel, alice.BaseHealth)
	assert.Equal(t, alice.MaxHealth(), alice.CurrentHealth, "full heal on level up")
}

func TestPvPRequiresFlaggedRoom(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")
	bob, _ := join(s, "Bob", "town_square")

	err := s.AttackPlayer(alice, bob)
	require.NotNil(t, err)
	assert.Equal(t, command.CodeCombatPvPDisallowed, err.Code)
	assert.False(t, alice.InPvPCombat)
}

func TestPvPDefeat(t *testing.T) {
	s := newTestServer(t, nil)
	s.w.Room("town_square").Loc.Tags.PvPAllowed = true
	alice, _ := join(s, "Alice", "town_square")
	bob, _ := join(s, "Bob", "town_square")

	bob.CurrentHealth = 1
	bob.Gold = 50
	goldBefore := alice.Gold

	require.Nil(t, s.AttackPlayer(alice, bob))

	assert.Equal(t, 1, alice.PvPWins)
	assert.Equal(t, 1, bob.PvPLosses)
	assert.Equal(t, 40, bob.Gold, "loser loses the loot percentage")
	assert.Equal(t, goldBefore+10, alice.Gold)
	assert.Positive(t, alice.XP)
	assert.False(t, alice.InPvPCombat)
	assert.False(t, bob.InPvPCombat)
	assert.Equal(t, bob.MaxHealth(), bob.CurrentHealth, "loser fully healed for respawn")
}

func TestScrollDamageBypassesDefense(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "forest")
	wolf := s.w.Room("forest").Enemies[0]
	wolf.Template.Defense = 100 // would floor normal hits to 1

	require.Nil(t, s.AttackEnemy(alice, "wolf"))
	healthAfterHit := wolf.CurrentHealth

	scroll := &items.Item{ID: "fire_scroll", Name: "Fire Scroll", Type: items.TypeConsumable, Damage: 5, ManaCost: 2}
	require.Nil(t, s.ApplyScrollDamage(alice, scroll))

	assert.Equal(t, healthAfterHit-5, wolf.CurrentHealth)
	assert.Equal(t, 48, alice.CurrentMana)
}
