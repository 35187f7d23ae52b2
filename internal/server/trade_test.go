package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/player"
)

func giveItem(s *Server, p *player.Player, id string) *items.Item {
	inst := items.NewInstance(s.cat.Items[id])
	p.Inventory = append(p.Inventory, inst)
	return inst
}

// TestTradeSwap is scenario S3: a full escrow swap through the command
// surface.
func TestTradeSwap(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")
	bob, _ := join(s, "Bob", "town_square")
	giveItem(s, alice, "health_potion")
	giveItem(s, bob, "iron_sword")

	s.HandleCommand(alice, "trade start Bob")
	require.NotNil(t, bob.Trade)
	assert.True(t, bob.Trade.Pending)

	s.HandleCommand(bob, "trade accept")
	require.NotNil(t, alice.Trade)
	assert.False(t, bob.Trade.Pending)

	s.HandleCommand(alice, "trade add health_potion")
	assert.Empty(t, alice.Inventory, "escrowed items leave the inventory")
	assert.Len(t, alice.Trade.Items, 1)

	s.HandleCommand(bob, "trade add iron_sword")
	s.HandleCommand(alice, "trade ready")
	require.NotNil(t, alice.Trade, "one ready flag does not commit")

	s.HandleCommand(bob, "trade ready")

	assert.Nil(t, alice.Trade)
	assert.Nil(t, bob.Trade)
	require.Len(t, alice.Inventory, 1)
	require.Len(t, bob.Inventory, 1)
	assert.Equal(t, "iron_sword", alice.Inventory[0].ID)
	assert.Equal(t, "health_potion", bob.Inventory[0].ID)
}

func TestTradeEditResetsReadyFlags(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")
	bob, _ := join(s, "Bob", "town_square")
	giveItem(s, alice, "health_potion")

	s.HandleCommand(alice, "trade start Bob")
	s.HandleCommand(bob, "trade accept")
	s.HandleCommand(alice, "trade ready")
	s.HandleCommand(bob, "trade ready") // commits an empty trade: alice added nothing yet

	// Both readied an empty trade; it executes and clears. Start over to
	// exercise the reset path.
	s.HandleCommand(alice, "trade start Bob")
	s.HandleCommand(bob, "trade accept")
	s.HandleCommand(bob, "trade ready")
	require.True(t, bob.Trade.Ready)

	s.HandleCommand(alice, "trade add health_potion")
	assert.False(t, bob.Trade.Ready, "edits reset both ready flags")
	assert.False(t, alice.Trade.Ready)
}

func TestTradeCancelRestoresEscrow(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")
	bob, _ := join(s, "Bob", "town_square")
	potion := giveItem(s, alice, "health_potion")
	alice.Gold = 30

	s.HandleCommand(alice, "trade start Bob")
	s.HandleCommand(bob, "trade accept")
	s.HandleCommand(alice, "trade add health_potion")
	s.HandleCommand(alice, "trade add 10 gold")
	require.Equal(t, 20, alice.Gold)

	s.HandleCommand(alice, "trade cancel")

	assert.Nil(t, alice.Trade)
	assert.Nil(t, bob.Trade)
	assert.Equal(t, 30, alice.Gold, "escrowed gold returns on cancel")
	require.Len(t, alice.Inventory, 1)
	assert.Same(t, potion, alice.Inventory[0])
}

func TestTradeExecuteRejectsWithoutSpace(t *testing.T) {
	s := newTestServer(t, nil) // inventory cap is 2
	alice, _ := join(s, "Alice", "town_square")
	bob, rec := join(s, "Bob", "town_square")
	giveItem(s, alice, "health_potion")
	giveItem(s, bob, "iron_sword")
	giveItem(s, bob, "iron_sword")

	s.HandleCommand(alice, "trade start Bob")
	s.HandleCommand(bob, "trade accept")
	s.HandleCommand(alice, "trade add health_potion")
	s.HandleCommand(alice, "trade ready")
	s.HandleCommand(bob, "trade ready")

	// Bob holds 2/2 items and offered none; Alice's potion cannot fit.
	assert.Nil(t, alice.Trade)
	assert.Nil(t, bob.Trade)
	assert.Len(t, alice.Inventory, 1, "escrow restored to Alice")
	assert.Len(t, bob.Inventory, 2)
	assert.True(t, rec.hasText("not enough inventory space"))
}

func TestTradeCanceledByMovement(t *testing.T) {
	s := newTestServer(t, nil)
	alice, _ := join(s, "Alice", "town_square")
	bob, _ := join(s, "Bob", "town_square")
	giveItem(s, alice, "health_potion")

	s.HandleCommand(alice, "trade start Bob")
	s.HandleCommand(bob, "trade accept")
	s.HandleCommand(alice, "trade add health_potion")

	require.Nil(t, s.MovePlayer(alice, "north"))

	assert.Nil(t, alice.Trade)
	assert.Nil(t, bob.Trade)
	assert.Len(t, alice.Inventory, 1)
}

func TestTradeStartGuards(t *testing.T) {
	s := newTestServer(t, nil)
	alice, rec := join(s, "Alice", "town_square")
	_, _ = join(s, "Bob", "forest")

	s.HandleCommand(alice, "trade start Alice")
	assert.True(t, rec.hasCode("trade_self"))

	s.HandleCommand(alice, "trade start Bob")
	assert.True(t, rec.hasCode("trade_same_room"))

	s.HandleCommand(alice, "trade start Nobody")
	assert.True(t, rec.hasCode("trade_partner_offline"))
}
