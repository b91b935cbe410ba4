// Package ai provides agents that pick actions from the engine's legal set:
// a seeded random agent, a PUCT Monte-Carlo tree search, and an LLM-backed
// persona agent. Agents never synthesize actions — every pick comes from
// LegalActions.
package ai

import (
	"context"

	"github.com/0xtyls/n-r-ai/types"
)

// Agent selects one action for the given state.
type Agent interface {
	Act(ctx context.Context, s *types.GameState) (types.Action, error)
}
