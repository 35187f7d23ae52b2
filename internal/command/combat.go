package command

import (
	"github.com/RednibCoding/mudden/internal/player"
)

func cmdAttack(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Attack what?")
	}
	target := args[0]

	// Another player in the room takes precedence over an enemy of the same
	// name; PvP is resolved by the engine.
	for _, other := range srv.PlayersIn(p.Location) {
		if other != p && (other.Username == target) {
			return srv.AttackPlayer(p, other)
		}
	}
	return srv.AttackEnemy(p, target)
}

func cmdFlee(srv ServerInterface, p *player.Player, args []string) *GameError {
	return srv.Flee(p)
}
