package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RednibCoding/mudden/internal/npc"
	"github.com/RednibCoding/mudden/internal/quest"
)

// addQuestGiver wires an NPC offering q into the given room.
func addQuestGiver(s *Server, roomID string, n *npc.NPC, q *quest.Quest) {
	q.NPC = n.ID
	s.cat.NPCs[n.ID] = n
	s.cat.Quests.Add(q)
	room := s.w.Room(roomID)
	room.NPCs = append(room.NPCs, n)
}

func TestQuestAcceptAndKillProgress(t *testing.T) {
	s := newTestServer(t, nil)
	alice, rec := join(s, "Alice", "forest")
	addQuestGiver(s, "forest", &npc.NPC{
		ID: "hunter", Name: "Hunter", Dialogue: "Wolves everywhere.",
		Quest: "cull", QuestDialogue: "Thin the pack for me.",
	}, &quest.Quest{
		ID: "cull", Name: "Cull the Pack", Type: quest.TypeKill, Target: "wolf", Count: 1,
		Dialogue:           "Still hunting?",
		CompletionDialogue: "The forest thanks you.",
		Reward:             quest.Reward{Gold: 10, XP: 5},
	})

	s.HandleCommand(alice, "talk hunter")
	require.Contains(t, alice.ActiveQuests, "cull")
	assert.True(t, rec.hasText("Quest accepted"))

	// Kill the wolf; progress advances with the killing blow.
	wolf := s.w.Room("forest").Enemies[0]
	wolf.CurrentHealth = 1
	require.Nil(t, s.AttackEnemy(alice, "wolf"))
	assert.Equal(t, 1, alice.ActiveQuests["cull"])

	goldBefore := alice.Gold
	s.HandleCommand(alice, "talk hunter")

	assert.NotContains(t, alice.ActiveQuests, "cull")
	assert.True(t, alice.CompletedQuests["cull"])
	assert.Equal(t, goldBefore+10, alice.Gold)
	assert.True(t, rec.hasText("The forest thanks you."))
}

// TestQuestCollectCompletion is scenario S6: collect turn-in removes the
// targets and grants the item reward when it fits.
func TestQuestCollectCompletion(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")
	addQuestGiver(s, "town_square", &npc.NPC{
		ID: "tanner", Name: "Tanner", Dialogue: "Hides.",
		Quest: "pelts", QuestDialogue: "Bring me a potion.",
	}, &quest.Quest{
		ID: "pelts", Name: "Potion Run", Type: quest.TypeCollect, Target: "health_potion", Count: 1,
		Dialogue:           "Got it yet?",
		CompletionDialogue: "Perfect.",
		Reward:             quest.Reward{Gold: 10, Item: "iron_sword"},
	})

	s.HandleCommand(alice, "talk tanner")
	require.Contains(t, alice.ActiveQuests, "pelts")

	giveItem(s, alice, "health_potion")
	giveItem(s, alice, "health_potion") // 2/2 slots; removal frees one for the reward

	s.HandleCommand(alice, "talk tanner")

	assert.True(t, alice.CompletedQuests["pelts"])
	assert.Equal(t, 1, alice.CountItem("health_potion"), "only the required count is removed")
	assert.Equal(t, 1, alice.CountItem("iron_sword"))
	assert.Len(t, alice.Inventory, 2)
}

func TestQuestRewardNeedsRoom(t *testing.T) {
	s := newTestServer(t, nil)
	alice, rec := join(s, "Alice", "town_square")
	addQuestGiver(s, "town_square", &npc.NPC{
		ID: "elder", Name: "Elder", Dialogue: "Welcome.",
		Quest: "greet", QuestDialogue: "Come see me.",
	}, &quest.Quest{
		ID: "greet", Name: "Pay Respects", Type: quest.TypeVisit, Target: "elder",
		Dialogue:           "Yes?",
		CompletionDialogue: "Take this.",
		Reward:             quest.Reward{Item: "iron_sword"},
	})

	s.HandleCommand(alice, "talk elder")
	require.Contains(t, alice.ActiveQuests, "greet")

	giveItem(s, alice, "health_potion")
	giveItem(s, alice, "health_potion") // inventory full, nothing freed by a visit quest

	s.HandleCommand(alice, "talk elder")

	assert.True(t, rec.hasCode("quest_no_space"))
	assert.Contains(t, alice.ActiveQuests, "greet", "quest stays active until there is room")

	alice.Inventory = alice.Inventory[:1]
	s.HandleCommand(alice, "talk elder")
	assert.True(t, alice.CompletedQuests["greet"])
	assert.Equal(t, 1, alice.CountItem("iron_sword"))
}

func TestQuestLevelGate(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")
	addQuestGiver(s, "town_square", &npc.NPC{
		ID: "captain", Name: "Captain", Dialogue: "Not yet, recruit.",
		Quest: "patrol", QuestDialogue: "Walk the walls.",
	}, &quest.Quest{
		ID: "patrol", Name: "Patrol", Type: quest.TypeVisit, Target: "captain",
		RequiredLevel:      5,
		Dialogue:           "On duty?",
		CompletionDialogue: "Good.",
	})

	s.HandleCommand(alice, "talk captain")
	assert.NotContains(t, alice.ActiveQuests, "patrol", "under-leveled players get plain dialogue")

	alice.Level = 5
	s.HandleCommand(alice, "talk captain")
	assert.Contains(t, alice.ActiveQuests, "patrol")
}

func TestHealerCharges(t *testing.T) {
	s := newTestServer(t, nil)
	alice, rec := join(s, "Alice", "town_square")
	room := s.w.Room("town_square")
	healer := &npc.NPC{ID: "aldra", Name: "Aldra", Dialogue: "Rest easy.", Healer: true}
	s.cat.NPCs[healer.ID] = healer
	room.NPCs = append(room.NPCs, healer)

	alice.CurrentHealth = 60 // missing 40, cost = ceil(40 * 50 / 100) = 20
	alice.Gold = 5
	s.HandleCommand(alice, "talk aldra")
	assert.Equal(t, 60, alice.CurrentHealth, "quote only when gold is short")
	assert.True(t, rec.hasText("20 gold"))

	alice.Gold = 25
	s.HandleCommand(alice, "talk aldra")
	assert.Equal(t, alice.MaxHealth(), alice.CurrentHealth)
	assert.Equal(t, 5, alice.Gold)
}
