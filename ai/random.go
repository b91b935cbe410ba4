package ai

import (
	"context"
	"fmt"

	"github.com/0xtyls/n-r-ai/engine"
	"github.com/0xtyls/n-r-ai/types"
)

// RandomAgent picks uniformly among the legal actions with its own seeded
// generator, so a selfplay run is reproducible from (game seed, agent seed).
type RandomAgent struct {
	Engine *engine.Engine
	rng    *engine.RNG
}

// NewRandomAgent creates a random agent with a deterministic seed.
func NewRandomAgent(e *engine.Engine, seed int64) *RandomAgent {
	return &RandomAgent{Engine: e, rng: engine.NewRNG(seed)}
}

// Act picks a uniformly random legal action.
func (a *RandomAgent) Act(_ context.Context, s *types.GameState) (types.Action, error) {
	actions := a.Engine.LegalActions(s)
	if len(actions) == 0 {
		return types.Action{}, fmt.Errorf("ai: no legal actions (game over?)")
	}
	return actions[a.rng.Intn(len(actions))], nil
}
