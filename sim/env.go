// Package sim wraps the rules engine in a reset/step environment for
// agents, search, and the API server. The environment owns one current
// state; the engine underneath stays pure, so holding older states for
// backtracking remains safe.
package sim

import (
	"fmt"

	"github.com/0xtyls/n-r-ai/engine"
	"github.com/0xtyls/n-r-ai/engine/state"
	"github.com/0xtyls/n-r-ai/types"
)

// Environment drives one game from setup to terminal.
type Environment struct {
	Engine *engine.Engine
	State  *types.GameState
	Done   bool

	setup state.Setup
}

// New creates an environment over an engine and scenario setup. Call Reset
// before stepping.
func New(e *engine.Engine, su state.Setup) *Environment {
	return &Environment{Engine: e, setup: su}
}

// Reset starts a fresh game. The event deck is shuffled with the seed, so
// the same seed always yields the same game; everything after setup is a
// pure function of the action sequence.
func (env *Environment) Reset(seed int64) (*types.GameState, error) {
	su := env.setup
	su.EventDeck = append([]types.EventCard(nil), env.setup.EventDeck...)
	rng := engine.NewRNG(seed)
	rng.Shuffle(len(su.EventDeck), func(i, j int) {
		su.EventDeck[i], su.EventDeck[j] = su.EventDeck[j], su.EventDeck[i]
	})
	s, err := state.New(env.Engine.Board, su, seed)
	if err != nil {
		return nil, fmt.Errorf("sim: reset: %w", err)
	}
	env.State = s
	env.Done = false
	return s, nil
}

// Step applies one action and returns the next state, the reward, and
// whether the game has ended. Reward is +1 on a win, -1 on a loss, 0
// otherwise.
func (env *Environment) Step(a types.Action) (*types.GameState, float64, bool, error) {
	if env.State == nil {
		return nil, 0, false, fmt.Errorf("sim: step before reset")
	}
	if env.Done {
		return env.State, 0, true, nil
	}
	next, err := env.Engine.Apply(env.State, a)
	if err != nil {
		return env.State, 0, env.Done, err
	}
	env.State = next
	env.Done = next.GameOver
	return next, Reward(next), env.Done, nil
}

// Run advances automatic phases until a player decision point or terminal
// state, returning the resulting state.
func (env *Environment) Run() (*types.GameState, error) {
	for env.State != nil && !env.State.GameOver && env.State.Phase != types.PhasePlayer {
		if _, _, _, err := env.Step(types.Action{Kind: types.ActionNextPhase}); err != nil {
			return env.State, err
		}
	}
	return env.State, nil
}

// Reward scores a state: +1 win, -1 loss, 0 for everything else.
func Reward(s *types.GameState) float64 {
	if !s.GameOver {
		return 0
	}
	if s.Win {
		return 1
	}
	return -1
}
