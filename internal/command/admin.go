package command

import (
	"fmt"
	"strconv"

	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
)

func cmdQuit(srv ServerInterface, p *player.Player, args []string) *GameError {
	p.Send(protocol.System, "Farewell.")
	srv.DisconnectPlayer(p, protocol.FrameLogout)
	return nil
}

func cmdResetAccount(srv ServerInterface, p *player.Player, args []string) *GameError {
	srv.CancelTrade(p, true)
	p.Reset(srv.GameConfig().PlayerDefaults)
	p.Send(protocol.System, "Your character has been reset.")
	srv.SavePlayer(p)
	srv.Look(p)
	srv.SendGameState(p)
	return nil
}

func cmdDeleteAccount(srv ServerInterface, p *player.Player, args []string) *GameError {
	if err := srv.DeleteAccount(p); err != nil {
		return NewError(CodeBadArguments, "Could not delete your account. Try again.")
	}
	return nil
}

func requireGM(p *player.Player) *GameError {
	if !p.IsGM {
		return NewError(CodeGmDenied, "You don't have permission to do that.")
	}
	return nil
}

func cmdBan(srv ServerInterface, p *player.Player, args []string) *GameError {
	if err := requireGM(p); err != nil {
		return err
	}
	if len(args) != 2 {
		return NewError(CodeBadArguments, "Usage: ban <name> <hours>")
	}
	hours, err := strconv.Atoi(args[1])
	if err != nil || hours <= 0 {
		return NewError(CodeBadArguments, "Ban for how many hours?")
	}
	if gerr := srv.BanPlayer(args[0], hours); gerr != nil {
		return gerr
	}
	p.Send(protocol.Success, fmt.Sprintf("%s has been banned for %d hours.", args[0], hours))
	return nil
}

func cmdKick(srv ServerInterface, p *player.Player, args []string) *GameError {
	if err := requireGM(p); err != nil {
		return err
	}
	if len(args) != 1 {
		return NewError(CodeBadArguments, "Usage: kick <name>")
	}
	if !srv.KickPlayer(args[0]) {
		return NewError(CodeLookupUnknownID, "They aren't online.")
	}
	p.Send(protocol.Success, fmt.Sprintf("%s has been kicked.", args[0]))
	return nil
}

func cmdTeleport(srv ServerInterface, p *player.Player, args []string) *GameError {
	if err := requireGM(p); err != nil {
		return err
	}
	if len(args) != 2 {
		return NewError(CodeBadArguments, "Usage: teleport <name> <locationId>")
	}
	target := srv.FindPlayer(args[0])
	if target == nil {
		return NewError(CodeLookupUnknownID, "They aren't online.")
	}
	if srv.World().Room(args[1]) == nil {
		return NewError(CodeLookupUnknownID, "No such location.")
	}
	srv.TeleportPlayer(target, args[1])
	p.Send(protocol.Success, fmt.Sprintf("%s teleported to %s.", target.Username, args[1]))
	return nil
}
