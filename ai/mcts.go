package ai

import (
	"context"
	"fmt"
	"math"

	"github.com/0xtyls/n-r-ai/engine"
	"github.com/0xtyls/n-r-ai/sim"
	"github.com/0xtyls/n-r-ai/types"
)

const (
	defaultCPuct   = 1.0
	maxSelectDepth = 100 // hard cap on selection recursion
	playoutDepth   = 20  // random playout horizon
)

// MCTS is a PUCT tree search over the rules engine. The engine's purity is
// what makes this work: every simulation branches off its own state value
// with no copying discipline needed beyond Apply itself.
type MCTS struct {
	Engine *engine.Engine
	Policy Policy
	Iters  int
	CPuct  float64

	rng  *engine.RNG
	root *node
}

// NewMCTS creates a search with the uniform prior and a seeded playout
// generator.
func NewMCTS(e *engine.Engine, iters int, seed int64) *MCTS {
	return &MCTS{
		Engine: e,
		Policy: Uniform,
		Iters:  iters,
		CPuct:  defaultCPuct,
		rng:    engine.NewRNG(seed),
	}
}

// Act runs the search and returns the most-visited root action.
func (m *MCTS) Act(ctx context.Context, s *types.GameState) (types.Action, error) {
	actions := m.Engine.LegalActions(s)
	if len(actions) == 0 {
		return types.Action{}, fmt.Errorf("ai: no legal actions (game over?)")
	}
	if len(actions) == 1 {
		return actions[0], nil
	}

	m.root = newNode(types.Action{}, 1)
	for i := 0; i < m.Iters; i++ {
		if err := ctx.Err(); err != nil {
			break // budget is the caller's: return the best answer so far
		}
		m.searchIter(s, m.root, 0)
	}

	best := actions[0]
	bestVisits := -1
	for _, a := range actions {
		if child, ok := m.root.children[a]; ok && child.visits > bestVisits {
			bestVisits = child.visits
			best = a
		}
	}
	return best, nil
}

func (m *MCTS) searchIter(s *types.GameState, n *node, depth int) float64 {
	if depth > maxSelectDepth {
		return 0
	}
	actions := m.Engine.LegalActions(s)
	if len(actions) == 0 {
		return n.record(sim.Reward(s))
	}
	if len(n.children) == 0 && n.visits > 0 {
		m.expand(n, s, actions)
	}
	if len(n.children) == 0 {
		return n.record(m.playout(s))
	}

	action, child := m.selectChild(n, actions)
	next, err := m.Engine.Apply(s, action)
	if err != nil {
		// Legal actions never fail to apply; a failure here is an engine
		// defect, so stop exploring this branch.
		return 0
	}
	value := m.searchIter(next, child, depth+1)
	n.record(value)
	return value
}

func (m *MCTS) expand(n *node, s *types.GameState, actions []types.Action) {
	priors := m.Policy(s, actions)
	for i, a := range actions {
		p := 1.0 / float64(len(actions))
		if priors != nil {
			p = priors[i]
		}
		n.children[a] = newNode(a, p)
	}
}

func (m *MCTS) selectChild(n *node, actions []types.Action) (types.Action, *node) {
	bestScore := math.Inf(-1)
	var bestAction types.Action
	var bestChild *node
	for _, a := range actions {
		child, ok := n.children[a]
		if !ok {
			continue
		}
		score := child.mean + m.CPuct*child.prior*math.Sqrt(float64(n.visits))/float64(1+child.visits)
		if score > bestScore {
			bestScore = score
			bestAction = a
			bestChild = child
		}
	}
	if bestChild == nil {
		bestAction = actions[0]
		child, ok := n.children[bestAction]
		if !ok {
			child = newNode(bestAction, 1.0/float64(len(actions)))
			n.children[bestAction] = child
		}
		return bestAction, child
	}
	return bestAction, bestChild
}

// playout runs a short uniformly random rollout and returns the terminal
// reward (0 when the horizon is hit first).
func (m *MCTS) playout(s *types.GameState) float64 {
	cur := s
	for depth := 0; depth < playoutDepth; depth++ {
		actions := m.Engine.LegalActions(cur)
		if len(actions) == 0 {
			break
		}
		next, err := m.Engine.Apply(cur, actions[m.rng.Intn(len(actions))])
		if err != nil {
			break
		}
		cur = next
	}
	return sim.Reward(cur)
}
