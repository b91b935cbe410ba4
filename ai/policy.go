package ai

import "github.com/0xtyls/n-r-ai/types"

// Policy assigns prior probabilities to legal actions for tree search.
type Policy func(s *types.GameState, actions []types.Action) []float64

// Uniform spreads the prior evenly over the legal actions.
func Uniform(_ *types.GameState, actions []types.Action) []float64 {
	if len(actions) == 0 {
		return nil
	}
	p := 1.0 / float64(len(actions))
	out := make([]float64, len(actions))
	for i := range out {
		out[i] = p
	}
	return out
}
