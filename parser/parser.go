// Package parser converts typed command strings into game actions.
// Intentionally dumb: no NLP, just alias tables and matching against the
// engine's legal action list, so a parsed command can never produce a move
// the rules would not offer.
package parser

import (
	"fmt"
	"strings"

	"github.com/0xtyls/n-r-ai/types"
)

// Command is a normalized verb plus its room arguments.
type Command struct {
	Verb string
	Args []string
}

var verbAliases = map[string]string{
	// Movement
	"go":     "move",
	"walk":   "move",
	"run":    "move",
	"head":   "move",
	"enter":  "move",
	"travel": "move",

	// Cautious movement
	"creep": "sneak",
	"slink": "sneak",

	// Combat
	"fire":   "shoot",
	"blast":  "shoot",
	"hit":    "melee",
	"strike": "melee",
	"stab":   "melee",
	"punch":  "melee",
	"fight":  "melee",
	"attack": "melee",
	"spray":  "burst",

	// Doors
	"shut": "close",
	"seal": "close",

	// Rooms
	"activate": "use",
	"operate":  "use",

	// Endgame
	"flee":     "escape",
	"evacuate": "escape",
	"launch":   "escape",

	// Turn control
	"wait": "pass",
	"rest": "pass",
	"z":    "pass",
	"done": "end",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

var prepositions = map[string]bool{
	"to": true, "at": true, "into": true, "through": true, "down": true, "via": true,
}

// Parse normalizes a raw command line into a Command. Unknown verbs pass
// through unchanged; Match decides whether they mean anything.
func Parse(input string) Command {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(words) == 0 {
		return Command{}
	}

	words = expandMultiWordVerbs(words)
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	cmd := Command{Verb: words[0]}
	for _, w := range words[1:] {
		if articles[w] || prepositions[w] {
			continue
		}
		cmd.Args = append(cmd.Args, w)
	}
	return cmd
}

// expandMultiWordVerbs handles "move carefully", "end turn", "open door" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "move", "go", "walk":
		if words[1] == "carefully" || words[1] == "quietly" || words[1] == "slowly" {
			return append([]string{"sneak"}, words[2:]...)
		}
	case "open", "close", "shut", "seal":
		if words[1] == "door" {
			return append([]string{words[0]}, words[2:]...)
		}
	case "end":
		if words[1] == "turn" || words[1] == "phase" {
			return append([]string{"end"}, words[2:]...)
		}
	case "use":
		if words[1] == "room" {
			return append([]string{"use"}, words[2:]...)
		}
	case "burst", "spray":
		if words[1] == "fire" {
			return append([]string{"burst"}, words[2:]...)
		}
	}

	return words
}

var verbKinds = map[string]types.ActionKind{
	"move":   types.ActionMove,
	"sneak":  types.ActionMoveCautious,
	"open":   types.ActionOpenDoor,
	"close":  types.ActionCloseDoor,
	"shoot":  types.ActionShoot,
	"melee":  types.ActionMelee,
	"burst":  types.ActionBurst,
	"use":    types.ActionUseRoom,
	"escape": types.ActionEscape,
	"pass":   types.ActionPass,
	"end":    types.ActionEndPlayerPhase,
}

// Match resolves a parsed command against the legal action list. Every
// returned action is one of the inputs; ambiguity and impossibility are
// errors for the caller to show the player.
func Match(cmd Command, legal []types.Action) (types.Action, error) {
	if cmd.Verb == "" {
		return types.Action{}, fmt.Errorf("parser: empty command")
	}
	kind, ok := verbKinds[cmd.Verb]
	if !ok {
		return types.Action{}, fmt.Errorf("parser: unknown verb %q", cmd.Verb)
	}

	var candidates []types.Action
	for _, a := range legal {
		if a.Kind == kind && argsMatch(cmd.Args, a) {
			candidates = append(candidates, a)
		}
	}

	switch len(candidates) {
	case 0:
		return types.Action{}, fmt.Errorf("parser: you can't %s that here", cmd.Verb)
	case 1:
		return candidates[0], nil
	default:
		return types.Action{}, fmt.Errorf("parser: %q is ambiguous, be more specific", cmd.Verb)
	}
}

// argsMatch checks the command's room arguments against an action. A room
// argument must name the action's destination; an "a-b" argument or a pair
// of rooms must name its corridor.
func argsMatch(args []string, a types.Action) bool {
	rooms, edges := splitArgs(args)

	for _, r := range rooms {
		if !roomArgMatches(r, a) {
			return false
		}
	}
	for _, e := range edges {
		if !edgeArgMatches(e, a) {
			return false
		}
	}
	return true
}

// splitArgs separates plain room names from "a-b" corridor references.
func splitArgs(args []string) (rooms []string, edges [][2]string) {
	for _, arg := range args {
		if a, b, ok := strings.Cut(arg, "-"); ok && a != "" && b != "" {
			edges = append(edges, [2]string{a, b})
			continue
		}
		rooms = append(rooms, arg)
	}
	// Two bare rooms on an edge-taking verb are the corridor's endpoints.
	if len(rooms) == 2 {
		edges = append(edges, [2]string{rooms[0], rooms[1]})
	}
	return rooms, edges
}

func roomArgMatches(arg string, a types.Action) bool {
	switch a.Kind {
	case types.ActionMove, types.ActionMoveCautious, types.ActionOpenDoor, types.ActionCloseDoor:
		return strings.EqualFold(arg, string(a.To))
	case types.ActionBurst:
		return strings.EqualFold(arg, string(a.Target.A)) || strings.EqualFold(arg, string(a.Target.B))
	default:
		return false
	}
}

func edgeArgMatches(arg [2]string, a types.Action) bool {
	var e types.Edge
	switch a.Kind {
	case types.ActionBurst:
		e = a.Target
	case types.ActionMoveCautious:
		e = a.NoiseEdge
	default:
		return false
	}
	fwd := strings.EqualFold(arg[0], string(e.A)) && strings.EqualFold(arg[1], string(e.B))
	rev := strings.EqualFold(arg[0], string(e.B)) && strings.EqualFold(arg[1], string(e.A))
	return fwd || rev
}
