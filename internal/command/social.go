package command

import (
	"fmt"
	"strings"

	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
)

func cmdWhisper(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) < 2 {
		return NewError(CodeBadArguments, "Whisper what to whom?")
	}
	target := srv.FindPlayer(args[0])
	if target == nil || target == p {
		return NewError(CodeLookupUnknownID, "They aren't online.")
	}
	text := strings.Join(args[1:], " ")
	p.Send(protocol.Whisper, fmt.Sprintf("You whisper to %s: %s", target.Username, text))
	target.Send(protocol.Whisper, fmt.Sprintf("%s whispers: %s", p.Username, text))
	target.LastWhisperFrom = p.Username
	return nil
}

func cmdReply(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) == 0 {
		return NewError(CodeBadArguments, "Reply what?")
	}
	if p.LastWhisperFrom == "" {
		return NewError(CodeLookupUnknownID, "Nobody has whispered to you.")
	}
	return cmdWhisper(srv, p, append([]string{p.LastWhisperFrom}, args...))
}

func cmdFriend(srv ServerInterface, p *player.Player, args []string) *GameError {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch strings.ToLower(args[0]) {
	case "list":
		if len(p.Friends) == 0 {
			p.Send(protocol.Info, "Your friends list is empty.")
			return nil
		}
		var lines []string
		for _, name := range p.Friends {
			status := "offline"
			if other := srv.FindPlayer(name); other != nil {
				status = "online"
			}
			lines = append(lines, fmt.Sprintf("  %s (%s)", name, status))
		}
		p.Send(protocol.Info, "Friends:\n"+strings.Join(lines, "\n"))
		return nil

	case "add":
		if len(args) != 2 {
			return NewError(CodeBadArguments, "Add which friend?")
		}
		name := args[1]
		if strings.EqualFold(name, p.Username) {
			return NewError(CodeBadArguments, "You are already your own best friend.")
		}
		target := srv.FindPlayer(name)
		if target == nil {
			return NewError(CodeLookupUnknownID, "They aren't online.")
		}
		if !p.AddFriend(target.Username) {
			p.Send(protocol.Info, fmt.Sprintf("%s is already on your friends list.", target.Username))
			return nil
		}
		p.Send(protocol.Success, fmt.Sprintf("%s added to your friends list.", target.Username))
		srv.SavePlayer(p)
		return nil

	case "remove":
		if len(args) != 2 {
			return NewError(CodeBadArguments, "Remove which friend?")
		}
		if !p.RemoveFriend(args[1]) {
			return NewError(CodeLookupUnknownID, "They aren't on your friends list.")
		}
		p.Send(protocol.Success, fmt.Sprintf("%s removed from your friends list.", args[1]))
		srv.SavePlayer(p)
		return nil
	}
	return NewError(CodeBadArguments, "Usage: friend list|add|remove")
}
