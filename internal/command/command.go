// Package command parses verb lines into handler invocations. The server
// performs no fuzzy name matching: arguments are IDs the client resolved,
// and every handler re-validates them against what is actually present.
package command

import (
	"strings"

	"github.com/RednibCoding/mudden/internal/catalog"
	"github.com/RednibCoding/mudden/internal/game"
	"github.com/RednibCoding/mudden/internal/items"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
	"github.com/RednibCoding/mudden/internal/world"
)

// ServerInterface is the contract command handlers need from the server.
// The concrete implementation is *server.Server; the interface lives here to
// keep the dependency one-way. Every method is called with the game lock
// already held by the dispatching connection.
type ServerInterface interface {
	GameConfig() *game.Config
	Catalog() *catalog.Catalog
	World() *world.World

	// Presence. FindPlayer is case-insensitive over attached players.
	FindPlayer(name string) *player.Player
	OnlinePlayers() []*player.Player
	PlayersIn(locationID string) []*player.Player

	// Message bus.
	Broadcast(locationID, text string, mt protocol.MessageType, excludeUsername string)
	SendToAll(text string, mt protocol.MessageType)

	// Rendered views.
	Look(p *player.Player)
	SendGameState(p *player.Player)

	// Combat engine.
	IsInCombat(p *player.Player) bool
	EngagedEnemy(p *player.Player) *world.EnemyInstance
	AttackEnemy(p *player.Player, enemyID string) *GameError
	AttackPlayer(p, target *player.Player) *GameError
	Flee(p *player.Player) *GameError
	ApplyScrollDamage(p *player.Player, it *items.Item) *GameError
	CheckLevelUp(p *player.Player)

	// Movement.
	MovePlayer(p *player.Player, dir string) *GameError
	TeleportPlayer(p *player.Player, dest string)

	// Trade lifecycle owned by the server (also driven by disconnects and
	// room changes).
	CancelTrade(p *player.Player, notifyPartner bool)
	ExecuteTrade(p *player.Player) *GameError

	// Persistence and session control.
	SavePlayer(p *player.Player)
	DisconnectPlayer(p *player.Player, frameType string)
	DeleteAccount(p *player.Player) error
	BanPlayer(name string, hours int) *GameError
	KickPlayer(name string) bool
}

// Handler runs one command for one player. A returned GameError is emitted
// as an error frame; handlers communicate by sending messages.
type Handler func(srv ServerInterface, p *player.Player, args []string) *GameError

var handlers = map[string]Handler{}

// aliases maps alternate verbs onto canonical ones.
var aliases = map[string]string{
	"l":        "look",
	"m":        "map",
	"i":        "inventory",
	"inv":      "inventory",
	"eq":       "equipment",
	"x":        "examine",
	"ex":       "examine",
	"consider": "examine",
	"con":      "examine",
	"take":     "get",
	"wear":     "equip",
	"wield":    "equip",
	"remove":   "unequip",
	"hit":      "attack",
	"strike":   "attack",
	"run":      "flee",
	"speak":    "talk",
	"shop":     "list",
	"quests":   "quest",
	"wis":      "whisper",
	"tell":     "whisper",
	"w":        "whisper",
	"r":        "reply",
	"friends":  "friend",
	"f":        "friend",
	"logout":   "quit",
	"n":        "north",
	"s":        "south",
	"e":        "east",
	"ne":       "northeast",
	"nw":       "northwest",
	"se":       "southeast",
	"sw":       "southwest",
}

func register(verb string, h Handler) {
	handlers[verb] = h
}

func init() {
	// Movement verbs share one handler per direction.
	for _, dir := range world.Directions {
		d := dir
		register(d, func(srv ServerInterface, p *player.Player, args []string) *GameError {
			return srv.MovePlayer(p, d)
		})
	}
	register("move", cmdMove)
	register("look", cmdLook)
	register("map", cmdMap)
	register("inventory", cmdInventory)
	register("equipment", cmdEquipment)
	register("examine", cmdExamine)
	register("get", cmdGet)
	register("drop", cmdDrop)
	register("give", cmdGive)
	register("use", cmdUse)
	register("equip", cmdEquip)
	register("unequip", cmdUnequip)
	register("attack", cmdAttack)
	register("flee", cmdFlee)
	register("talk", cmdTalk)
	register("buy", cmdBuy)
	register("sell", cmdSell)
	register("list", cmdList)
	register("homestone", cmdHomestone)
	register("trade", cmdTrade)
	register("craft", cmdCraft)
	register("recipes", cmdRecipes)
	register("harvest", cmdHarvest)
	register("materials", cmdMaterials)
	register("quest", cmdQuest)
	register("say", cmdSay)
	register("whisper", cmdWhisper)
	register("reply", cmdReply)
	register("friend", cmdFriend)
	register("who", cmdWho)
	register("help", cmdHelp)
	register("stats", cmdStats)
	register("quit", cmdQuit)
	register("reset-account", cmdResetAccount)
	register("delete-account", cmdDeleteAccount)
	register("ban", cmdBan)
	register("kick", cmdKick)
	register("teleport", cmdTeleport)
}

// Dispatch parses a command line and runs its handler. Must be called with
// the game lock held.
func Dispatch(srv ServerInterface, p *player.Player, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	verb := strings.ToLower(fields[0])
	if canonical, ok := aliases[verb]; ok {
		verb = canonical
	}

	handler, ok := handlers[verb]
	if !ok {
		p.SendError(CodeUnknownVerb, "Unknown command: "+verb)
		return
	}
	if err := handler(srv, p, fields[1:]); err != nil {
		p.SendError(err.Code, err.Text)
	}
}

// cmdMove handles the explicit "move <direction>" form.
func cmdMove(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Move where?")
	}
	dir := strings.ToLower(args[0])
	if canonical, ok := aliases[dir]; ok {
		dir = canonical
	}
	if !world.ValidDirection(dir) {
		return NewError(CodeMovementNoExit, "You can't go that way.")
	}
	return srv.MovePlayer(p, dir)
}
