package ai

import "github.com/0xtyls/n-r-ai/types"

// node is one MCTS tree node. Children are keyed by the action leading to
// them; Action values are comparable so they key the map directly.
type node struct {
	action   types.Action
	visits   int     // N
	total    float64 // W
	mean     float64 // Q = W/N
	prior    float64 // P
	children map[types.Action]*node
}

func newNode(a types.Action, prior float64) *node {
	return &node{action: a, prior: prior, children: map[types.Action]*node{}}
}

// record folds one simulation value into the node's statistics.
func (n *node) record(value float64) float64 {
	n.visits++
	n.total += value
	n.mean = n.total / float64(n.visits)
	return value
}
