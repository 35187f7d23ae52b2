package world

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RednibCoding/mudden/internal/crafting"
	"github.com/RednibCoding/mudden/internal/enemy"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/npc"
	"github.com/RednibCoding/mudden/internal/shop"
)

// fakeViewer implements Viewer with explicit sets.
type fakeViewer struct {
	name      string
	active    map[string]bool
	completed map[string]bool
	defeated  map[string]bool
	pickedUp  map[string]bool
}

func (v *fakeViewer) Name() string                  { return v.name }
func (v *fakeViewer) HasActiveQuest(id string) bool { return v.active[id] }
func (v *fakeViewer) HasCompletedQuest(id string) bool {
	return v.completed[id]
}
func (v *fakeViewer) DefeatedOneTime(key string) bool { return v.defeated[key] }
func (v *fakeViewer) PickedUpOneTime(key string) bool { return v.pickedUp[key] }

func newViewer(name string) *fakeViewer {
	return &fakeViewer{
		name:      name,
		active:    map[string]bool{},
		completed: map[string]bool{},
		defeated:  map[string]bool{},
		pickedUp:  map[string]bool{},
	}
}

func testDeps() Deps {
	return Deps{
		Items: map[string]*items.Item{
			"iron_sword": {ID: "iron_sword", Name: "Iron Sword", Type: items.TypeEquipment, Slot: items.SlotWeapon},
		},
		Enemies: map[string]*enemy.Enemy{
			"wolf":  {ID: "wolf", Name: "Gray Wolf", Health: 10, MaxHealth: 10},
			"ghost": {ID: "ghost", Name: "Ghost", Health: 5, MaxHealth: 5},
		},
		NPCs:      map[string]*npc.NPC{},
		Shops:     map[string]*shop.Shop{},
		Materials: map[string]*crafting.Material{"herb": {ID: "herb", Name: "Herb"}},
	}
}

func testLocations() map[string]*Location {
	return map[string]*Location{
		"square": {
			ID: "square", Name: "Square",
			Exits: map[string]string{"north": "forest", "east": "gate"},
		},
		"forest": {
			ID: "forest", Name: "Forest",
			Exits:   map[string]string{"south": "square"},
			Enemies: []EnemyPlacement{{EnemyID: "wolf"}, {EnemyID: "ghost", PrerequisiteActiveQuests: []string{"seance"}, OneTime: true}},
			GroundItems: []GroundItemDecl{
				{ItemID: "iron_sword", RespawnTime: 60000},
			},
			Resources: []ResourceNode{{MaterialID: "herb", Amount: "1-1", Cooldown: 1000, Chance: 1}},
		},
		"gate": {
			ID: "gate", Name: "Gate",
			Exits: map[string]string{"west": "square"},
		},
	}
}

func TestNewResolvesReferences(t *testing.T) {
	w, err := New(testLocations(), testDeps())
	require.NoError(t, err)

	forest := w.Room("forest")
	require.NotNil(t, forest)
	assert.Len(t, forest.Enemies, 2)
	assert.Equal(t, 10, forest.Enemies[0].CurrentHealth)
	assert.Len(t, forest.Ground, 1)
	assert.True(t, forest.Ground[0].Preset)
}

func TestNewFailsFastOnUnknownReference(t *testing.T) {
	locs := testLocations()
	locs["square"].Exits["down"] = "crypt"

	_, err := New(locs, testDeps())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crypt")
	assert.Contains(t, err.Error(), "square")
}

func TestVisibleEnemiesGating(t *testing.T) {
	w, err := New(testLocations(), testDeps())
	require.NoError(t, err)
	v := newViewer("alice")

	visible := w.VisibleEnemies(v, "forest")
	require.Len(t, visible, 1, "gated ghost hidden without quest")
	assert.Equal(t, "wolf", visible[0].Template.ID)

	v.active["seance"] = true
	assert.Len(t, w.VisibleEnemies(v, "forest"), 2)

	v.defeated[OneTimeKey("forest", "ghost")] = true
	assert.Len(t, w.VisibleEnemies(v, "forest"), 1, "one-time defeat hides it again")
}

func TestVisibleEnemiesSkipsDead(t *testing.T) {
	w, err := New(testLocations(), testDeps())
	require.NoError(t, err)
	v := newViewer("alice")

	w.Room("forest").Enemies[0].Defeat(time.Now())
	assert.Empty(t, w.VisibleEnemies(v, "forest"))
}

func TestVisibleGroundItemsRespawnWindow(t *testing.T) {
	w, err := New(testLocations(), testDeps())
	require.NoError(t, err)
	v := newViewer("alice")
	now := time.Now()

	require.Len(t, w.VisibleGroundItems(v, "forest", now), 1)

	g := w.Room("forest").Ground[0]
	g.LastPickedUpAt = now
	assert.Empty(t, w.VisibleGroundItems(v, "forest", now.Add(30*time.Second)))
	assert.Len(t, w.VisibleGroundItems(v, "forest", now.Add(61*time.Second)), 1)
}

func TestEnemyInstanceLifecycle(t *testing.T) {
	e := &EnemyInstance{
		Template:      &enemy.Enemy{ID: "wolf", MaxHealth: 10},
		CurrentHealth: 10,
	}
	e.AddFighter("alice")
	e.AddFighter("alice")
	e.AddFighter("bob")
	assert.Equal(t, []string{"alice", "bob"}, e.Fighters)

	e.Defeat(time.Now())
	assert.False(t, e.Alive())
	assert.Empty(t, e.Fighters, "fighters clear on defeat")

	e.Respawn()
	assert.True(t, e.Alive())
	assert.Equal(t, 10, e.CurrentHealth)
	assert.Empty(t, e.Fighters)
}

func TestRenderMap(t *testing.T) {
	w, err := New(testLocations(), testDeps())
	require.NoError(t, err)

	rendered := w.RenderMap("square")
	require.NotEmpty(t, rendered)

	assert.Contains(t, rendered, "[    You    ]")
	assert.Contains(t, rendered, "Forest")
	assert.Contains(t, rendered, "Gate")
	assert.Contains(t, rendered, "|", "north-south connector drawn")
	assert.Contains(t, rendered, "---", "east-west connector drawn")

	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	assert.GreaterOrEqual(t, len(lines), 3)
}
