package command

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/RednibCoding/mudden/internal/crafting"
	"github.com/RednibCoding/mudden/internal/enemy"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
)

func cmdRecipes(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(p.KnownRecipes) == 0 {
		p.Send(protocol.Info, "You don't know any recipes.")
		return nil
	}
	var b strings.Builder
	b.WriteString("Known recipes:")
	for _, r := range srv.Catalog().Recipes.All() {
		if p.KnownRecipes[r.ID] {
			fmt.Fprintf(&b, "\n  %s (level %d)", r.Name, r.RequiredLevel)
		}
	}
	p.Send(protocol.Info, b.String())
	return nil
}

func cmdMaterials(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(p.Materials) == 0 {
		p.Send(protocol.Info, "You have no materials.")
		return nil
	}
	var b strings.Builder
	b.WriteString("Materials:")
	for _, mat := range sortedMaterials(srv, p) {
		fmt.Fprintf(&b, "\n  %s x%d", mat.Name, p.Materials[mat.ID])
	}
	p.Send(protocol.Info, b.String())
	return nil
}

func sortedMaterials(srv ServerInterface, p *player.Player) []*crafting.Material {
	var out []*crafting.Material
	for id := range p.Materials {
		if mat := srv.Catalog().Materials[id]; mat != nil {
			out = append(out, mat)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Name < out[j-1].Name; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func cmdCraft(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Craft what?")
	}
	r := srv.Catalog().Recipes.Get(args[0])
	if r == nil || !p.KnownRecipes[r.ID] {
		return NewError(CodeCraftUnknownRecipe, "You don't know that recipe.")
	}
	if p.Level < r.RequiredLevel {
		return NewError(CodeCraftLevel, fmt.Sprintf("You need to be level %d for that.", r.RequiredLevel))
	}
	cfg := srv.GameConfig()

	// Item results need a free slot before any material is consumed.
	if r.ResultType == crafting.ResultItem && !p.HasInventorySpace(cfg.Gameplay.MaxInventorySlots, 1) {
		return NewError(CodeInventoryFull, "Your inventory is full.")
	}
	if !p.ConsumeMaterials(r.Materials) {
		return NewError(CodeCraftMissing, "You lack the required materials.")
	}

	var resultName string
	switch r.ResultType {
	case crafting.ResultItem:
		tmpl := srv.Catalog().Items[r.ResultID]
		p.AddItem(items.NewInstance(tmpl), cfg.Gameplay.MaxInventorySlots)
		resultName = tmpl.Name
	case crafting.ResultMaterial:
		p.AddMaterial(r.ResultID, 1)
		resultName = srv.Catalog().Materials[r.ResultID].Name
	}

	var used []string
	for matID, n := range r.Materials {
		name := matID
		if mat := srv.Catalog().Materials[matID]; mat != nil {
			name = mat.Name
		}
		used = append(used, fmt.Sprintf("%s x%d", name, n))
	}
	RefreshCollectProgress(srv, p)
	p.Send(protocol.Success, fmt.Sprintf("You craft %s using %s.", resultName, strings.Join(used, ", ")))
	srv.SavePlayer(p)
	return nil
}

func cmdHarvest(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Harvest what?")
	}
	room := srv.World().Room(p.Location)
	node := room.ResourceNode(args[0])
	if node == nil {
		return NewError(CodeHarvestNothing, "There is nothing like that to harvest here.")
	}
	mat := srv.Catalog().Materials[node.MaterialID]

	key := p.Location + "_" + node.MaterialID
	now := time.Now().UnixMilli()
	if last, ok := p.LastHarvest[key]; ok {
		if remaining := last + int64(node.Cooldown) - now; remaining > 0 {
			minutes := float64(remaining) / 60000
			return NewError(CodeHarvestCooldown, fmt.Sprintf("%s will be available again in %.1f minutes.", mat.Name, minutes))
		}
	}

	// A failed roll does not start the cooldown.
	if rand.Float64() >= node.Chance {
		p.Send(protocol.Info, "You failed to harvest.")
		return nil
	}

	lo, hi, _ := enemy.ParseAmountRange(node.Amount)
	amount := lo
	if hi > lo {
		amount = lo + rand.IntN(hi-lo+1)
	}
	p.AddMaterial(node.MaterialID, amount)
	p.LastHarvest[key] = now

	p.Send(protocol.Success, fmt.Sprintf("You harvest %d %s.", amount, mat.Name))
	srv.Broadcast(p.Location, fmt.Sprintf("%s gathers some %s.", p.Username, mat.Name), protocol.System, p.Username)
	srv.SavePlayer(p)
	return nil
}
