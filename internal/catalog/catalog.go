// Package catalog loads the content directory into an immutable template
// catalog and validates every cross-reference before the server starts.
package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/RednibCoding/mudden/internal/crafting"
	"github.com/RednibCoding/mudden/internal/enemy"
	"github.com/RednibCoding/mudden/internal/game"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/logger"
	"github.com/RednibCoding/mudden/internal/npc"
	"github.com/RednibCoding/mudden/internal/quest"
	"github.com/RednibCoding/mudden/internal/shop"
	"github.com/RednibCoding/mudden/internal/world"
)

// Catalog is the immutable template set handed to the world and server.
type Catalog struct {
	Config    *game.Config
	Items     map[string]*items.Item
	Enemies   map[string]*enemy.Enemy
	NPCs      map[string]*npc.NPC
	Quests    *quest.Registry
	Shops     map[string]*shop.Shop
	Recipes   *crafting.RecipeRegistry
	Materials map[string]*crafting.Material
	Locations map[string]*world.Location
}

// Load reads every content subdirectory under root, then validates all
// cross-references. Any unresolved reference aborts the load.
func Load(root string) (*Catalog, error) {
	cfg, err := game.Load(filepath.Join(root, "config.json"))
	if err != nil {
		return nil, err
	}

	c := &Catalog{Config: cfg}

	if c.Items, err = items.LoadDir(filepath.Join(root, "items")); err != nil {
		return nil, err
	}
	if c.Enemies, err = enemy.LoadDir(filepath.Join(root, "enemies")); err != nil {
		return nil, err
	}
	if c.NPCs, err = npc.LoadDir(filepath.Join(root, "npcs")); err != nil {
		return nil, err
	}
	if c.Quests, err = quest.LoadDir(filepath.Join(root, "quests")); err != nil {
		return nil, err
	}
	if c.Shops, err = shop.LoadDir(filepath.Join(root, "shops")); err != nil {
		return nil, err
	}
	if c.Recipes, err = crafting.LoadRecipesDir(filepath.Join(root, "recipes")); err != nil {
		return nil, err
	}
	if c.Materials, err = crafting.LoadMaterialsDir(filepath.Join(root, "materials")); err != nil {
		return nil, err
	}
	if c.Locations, err = world.LoadDir(filepath.Join(root, "locations")); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	logger.Info("Content catalog loaded",
		"locations", len(c.Locations),
		"items", len(c.Items),
		"enemies", len(c.Enemies),
		"npcs", len(c.NPCs),
		"quests", c.Quests.Count(),
		"shops", len(c.Shops),
		"recipes", c.Recipes.Count(),
		"materials", len(c.Materials))

	return c, nil
}

// WorldDeps bundles the catalogs the world builder resolves against.
func (c *Catalog) WorldDeps() world.Deps {
	return world.Deps{
		Items:     c.Items,
		Enemies:   c.Enemies,
		NPCs:      c.NPCs,
		Shops:     c.Shops,
		Materials: c.Materials,
	}
}

// validate fail-fasts on every dangling ID reference that the world builder
// does not already cover (it resolves location-scoped references itself).
func (c *Catalog) validate() error {
	if _, ok := c.Locations[c.Config.PlayerDefaults.StartingLocation]; !ok {
		return fmt.Errorf("location %q referenced from config playerDefaults.startingLocation does not exist",
			c.Config.PlayerDefaults.StartingLocation)
	}
	if loc := c.Config.Gameplay.DeathRespawnLocation; loc != "" {
		if _, ok := c.Locations[loc]; !ok {
			return fmt.Errorf("location %q referenced from config gameplay.deathRespawnLocation does not exist", loc)
		}
	}

	for _, e := range c.Enemies {
		for matID := range e.MaterialDrops {
			if _, ok := c.Materials[matID]; !ok {
				return fmt.Errorf("material %q referenced from enemy %s materialDrops does not exist", matID, e.ID)
			}
		}
		for itemID := range e.ItemDrops {
			if _, ok := c.Items[itemID]; !ok {
				return fmt.Errorf("item %q referenced from enemy %s itemDrops does not exist", itemID, e.ID)
			}
		}
		for _, qid := range append(append([]string{}, e.PrerequisiteActiveQuests...), e.PrerequisiteCompletedQuests...) {
			if c.Quests.Get(qid) == nil {
				return fmt.Errorf("quest %q referenced from enemy %s prerequisites does not exist", qid, e.ID)
			}
		}
	}

	for _, s := range c.Shops {
		for _, itemID := range s.Items {
			if _, ok := c.Items[itemID]; !ok {
				return fmt.Errorf("item %q referenced from shop %s does not exist", itemID, s.ID)
			}
		}
	}

	for _, r := range c.Recipes.All() {
		switch r.ResultType {
		case crafting.ResultItem:
			if _, ok := c.Items[r.ResultID]; !ok {
				return fmt.Errorf("item %q referenced from recipe %s result does not exist", r.ResultID, r.ID)
			}
		case crafting.ResultMaterial:
			if _, ok := c.Materials[r.ResultID]; !ok {
				return fmt.Errorf("material %q referenced from recipe %s result does not exist", r.ResultID, r.ID)
			}
		}
		for matID := range r.Materials {
			if _, ok := c.Materials[matID]; !ok {
				return fmt.Errorf("material %q referenced from recipe %s does not exist", matID, r.ID)
			}
		}
	}

	for _, q := range c.Quests.All() {
		switch q.Type {
		case quest.TypeKill:
			if _, ok := c.Enemies[q.Target]; !ok {
				return fmt.Errorf("enemy %q referenced from quest %s target does not exist", q.Target, q.ID)
			}
		case quest.TypeCollect:
			if _, ok := c.Items[q.Target]; !ok {
				return fmt.Errorf("item %q referenced from quest %s target does not exist", q.Target, q.ID)
			}
			if q.MaterialDrop != "" {
				if _, ok := c.Materials[q.MaterialDrop]; !ok {
					return fmt.Errorf("material %q referenced from quest %s materialDrop does not exist", q.MaterialDrop, q.ID)
				}
			}
		case quest.TypeVisit:
			if _, ok := c.NPCs[q.Target]; !ok {
				return fmt.Errorf("npc %q referenced from quest %s target does not exist", q.Target, q.ID)
			}
		}
		if q.Reward.Item != "" {
			if _, ok := c.Items[q.Reward.Item]; !ok {
				return fmt.Errorf("item %q referenced from quest %s reward does not exist", q.Reward.Item, q.ID)
			}
		}
		if q.PrerequisiteQuest != "" && c.Quests.Get(q.PrerequisiteQuest) == nil {
			return fmt.Errorf("quest %q referenced from quest %s prerequisite does not exist", q.PrerequisiteQuest, q.ID)
		}
	}

	for _, n := range c.NPCs {
		if n.Quest != "" && c.Quests.Get(n.Quest) == nil {
			return fmt.Errorf("quest %q referenced from npc %s does not exist", n.Quest, n.ID)
		}
		if n.Shop != "" {
			if _, ok := c.Shops[n.Shop]; !ok {
				return fmt.Errorf("shop %q referenced from npc %s does not exist", n.Shop, n.ID)
			}
		}
		for keyword, portal := range n.Portals {
			if _, ok := c.Locations[portal.Destination]; !ok {
				return fmt.Errorf("location %q referenced from npc %s portal %s does not exist", portal.Destination, n.ID, keyword)
			}
		}
	}

	for _, it := range c.Items {
		if it.TeleportTo != "" {
			if _, ok := c.Locations[it.TeleportTo]; !ok {
				return fmt.Errorf("location %q referenced from item %s teleportTo does not exist", it.TeleportTo, it.ID)
			}
		}
		if it.TeachesRecipe != "" && c.Recipes.Get(it.TeachesRecipe) == nil {
			return fmt.Errorf("recipe %q referenced from item %s does not exist", it.TeachesRecipe, it.ID)
		}
		if it.MaterialID != "" {
			if _, ok := c.Materials[it.MaterialID]; !ok {
				return fmt.Errorf("material %q referenced from item %s does not exist", it.MaterialID, it.ID)
			}
		}
	}

	// Location-scoped gating references; the rest of the location surface is
	// checked again by the world builder.
	for _, loc := range c.Locations {
		for _, placement := range loc.Enemies {
			for _, qid := range append(append([]string{}, placement.PrerequisiteActiveQuests...), placement.PrerequisiteCompletedQuests...) {
				if c.Quests.Get(qid) == nil {
					return fmt.Errorf("quest %q referenced from location %s enemy gating does not exist", qid, loc.ID)
				}
			}
		}
		for _, decl := range loc.GroundItems {
			for _, qid := range append(append([]string{}, decl.PrerequisiteActiveQuests...), decl.PrerequisiteCompletedQuests...) {
				if c.Quests.Get(qid) == nil {
					return fmt.Errorf("quest %q referenced from location %s ground item gating does not exist", qid, loc.ID)
				}
			}
		}
	}

	// Quest back-link: attach the single offering NPC per quest.
	return c.Quests.LinkNPCs(c.NPCs)
}
