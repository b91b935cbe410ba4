// Package engine implements the rules of the game: legal-action enumeration
// and deterministic state transitions, including the automatic ENEMY, EVENT
// and CLEANUP phases. Apply is a pure function of (state, action); it never
// mutates its input, so callers may run any number of independent rollouts
// concurrently against the same shared Board.
package engine

import (
	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/engine/state"
	"github.com/0xtyls/n-r-ai/types"
)

// Config collects the fixed rule constants. They are knobs for scenario
// tuning, not per-call options.
type Config struct {
	ActionBudget       int // player actions per turn before only PASS/END remain
	NoiseIncrement     int // noise added per move
	EncounterThreshold int // accumulated noise that triggers an encounter
	DestructCountdown  int // rounds from arming to detonation
}

// DefaultConfig returns the standard rule constants.
func DefaultConfig() Config {
	return Config{
		ActionBudget:       2,
		NoiseIncrement:     1,
		EncounterThreshold: 1,
		DestructCountdown:  3,
	}
}

// Engine evaluates rules against a fixed board. It holds no mutable state.
type Engine struct {
	Board    *board.Board
	Resolver Resolver
	Config   Config
}

// New creates an engine with the default resolver and config.
func New(b *board.Board) *Engine {
	return &Engine{Board: b, Resolver: DeckResolver{}, Config: DefaultConfig()}
}

// handler applies one action kind to a cloned state. Handlers run only
// after the legality check, so they may assume their parameters are valid.
type handler func(*Engine, *types.GameState, types.Action)

// handlers is the exhaustive dispatch table over the action catalog.
var handlers = map[types.ActionKind]handler{
	types.ActionMove:           applyMove,
	types.ActionMoveCautious:   applyMoveCautious,
	types.ActionOpenDoor:       applyOpenDoor,
	types.ActionCloseDoor:      applyCloseDoor,
	types.ActionShoot:          applyShoot,
	types.ActionMelee:          applyMelee,
	types.ActionBurst:          applyBurst,
	types.ActionUseRoom:        applyUseRoom,
	types.ActionEscape:         applyEscape,
	types.ActionPass:           applyPass,
	types.ActionEndPlayerPhase: applyEndPlayerPhase,
	types.ActionNextPhase:      applyNextPhase,
}

// LegalActions enumerates every action currently allowed, in a stable,
// deterministic order. Terminal states return nil; automatic phases return
// the single NEXT_PHASE advance.
func (e *Engine) LegalActions(s *types.GameState) []types.Action {
	if s.GameOver {
		return nil
	}
	if s.Phase != types.PhasePlayer {
		return []types.Action{{Kind: types.ActionNextPhase}}
	}

	var out []types.Action
	if s.ActionsInTurn < e.Config.ActionBudget {
		out = append(out, e.moveActions(s)...)
		out = append(out, e.doorActions(s)...)
		if s.Ammo > 0 && !s.WeaponJammed {
			if s.Intruders[s.PlayerRoom] > 0 {
				out = append(out, types.Action{Kind: types.ActionShoot})
			}
			for _, edge := range e.burstTargets(s) {
				out = append(out, types.Action{Kind: types.ActionBurst, Target: edge})
			}
		}
		if s.Intruders[s.PlayerRoom] > 0 {
			out = append(out, types.Action{Kind: types.ActionMelee})
		}
		if e.Board.RoomType(s.PlayerRoom) != types.RoomPlain {
			out = append(out, types.Action{Kind: types.ActionUseRoom})
		}
		if e.Board.RoomType(s.PlayerRoom) == types.RoomEngine {
			out = append(out, types.Action{Kind: types.ActionEscape})
		}
	}
	out = append(out,
		types.Action{Kind: types.ActionPass},
		types.Action{Kind: types.ActionEndPlayerPhase},
	)
	return out
}

// Apply validates the action against LegalActions, then produces the next
// state. The input state is never modified; on error the returned state is
// nil. Legality is checked atomically up front, so a transition either
// happens in full or not at all.
func (e *Engine) Apply(s *types.GameState, a types.Action) (*types.GameState, error) {
	legal := false
	for _, la := range e.LegalActions(s) {
		if la == a {
			legal = true
			break
		}
	}
	if !legal {
		return nil, &IllegalActionError{Action: a, Phase: s.Phase}
	}

	next := state.Clone(s)
	next.Turn++
	handlers[a.Kind](e, next, a)

	if err := state.Check(next); err != nil {
		return nil, &InvariantError{Err: err}
	}
	return next, nil
}
