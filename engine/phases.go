package engine

import (
	"sort"

	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/engine/state"
	"github.com/0xtyls/n-r-ai/types"
)

// applyEndPlayerPhase leaves the PLAYER phase and immediately resolves the
// ENEMY phase effects. The caller then advances with NEXT_PHASE until
// control returns to a player decision point.
func applyEndPlayerPhase(e *Engine, s *types.GameState, _ types.Action) {
	s.Phase = types.PhaseEnemy
	e.resolveEnemy(s)
}

// applyNextPhase advances one automatic phase, resolving its effects as an
// atomic part of the transition.
func applyNextPhase(e *Engine, s *types.GameState, _ types.Action) {
	switch s.Phase {
	case types.PhaseEnemy:
		s.Phase = types.PhaseEvent
		e.resolveEvent(s)
	case types.PhaseEvent:
		s.Phase = types.PhaseCleanup
		e.resolveCleanup(s)
	case types.PhaseCleanup:
		s.Phase = types.PhasePlayer
		s.ActionsInTurn = 0
	}
}

// resolveEnemy: an intruder sharing the marine's room attacks, and every
// intruder caught in a burning room takes a burn hit. Burn alone never
// kills — it accumulates like any other hit but stops at 1 HP.
func (e *Engine) resolveEnemy(s *types.GameState) {
	if s.Intruders[s.PlayerRoom] > 0 {
		damagePlayer(s, 1)
	}
	for _, r := range sortedRooms(s.Intruders) {
		if s.Fires[r] && s.Intruders[r] > 1 {
			s.Intruders[r]--
		}
	}
}

// resolveEvent draws exactly one event card (an empty deck is a graceful
// no-op), then every intruder steps one room toward the marine along a
// shortest open path.
func (e *Engine) resolveEvent(s *types.GameState) {
	if len(s.EventDeck) > 0 {
		card := s.EventDeck[0]
		s.EventDeck = s.EventDeck[1:]
		e.resolveEventCard(s, card)
	}
	e.advanceIntruders(s)
}

func (e *Engine) resolveEventCard(s *types.GameState, card types.EventCard) {
	switch card.Kind {
	case types.EventNoiseRoom:
		s.RoomNoise[s.PlayerRoom] += e.Config.NoiseIncrement
	case types.EventNoiseCorr:
		if edge, ok := e.firstOpenEdge(s, s.PlayerRoom); ok {
			s.Noise[edge] += e.Config.NoiseIncrement
		} else {
			// Every corridor sealed: the noise echoes in the room itself.
			s.RoomNoise[s.PlayerRoom] += e.Config.NoiseIncrement
		}
	case types.EventBagDev:
		tok := card.Token
		if tok == "" {
			tok = types.TokenLarva
		}
		s.Bag[tok]++
		s.BagDevCount++
	case types.EventSpawnFromBag:
		e.spawnFromBag(s)
	case types.EventOxygenLeak:
		s.LifeSupport[e.Board.Section(s.PlayerRoom)] = false
	case types.EventFireRoom:
		s.Fires[s.PlayerRoom] = true
	}
}

// spawnFromBag draws the next token in fixed lexical order (no shuffle, so
// simulations replay exactly) and drops the matching intruder into the
// marine's room.
func (e *Engine) spawnFromBag(s *types.GameState) {
	kinds := make([]types.TokenKind, 0, len(s.Bag))
	for k, n := range s.Bag {
		if n > 0 {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		return
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	k := kinds[0]
	if s.Bag[k] == 1 {
		delete(s.Bag, k)
	} else {
		s.Bag[k]--
	}
	spawnIntruder(s, s.PlayerRoom, state.TokenHP(k))
}

// firstOpenEdge returns the lexically smallest open corridor at a room.
func (e *Engine) firstOpenEdge(s *types.GameState, r types.RoomID) (types.Edge, bool) {
	for _, edge := range e.Board.IncidentEdges(r) {
		if !s.Doors[edge] {
			return edge, true
		}
	}
	return types.Edge{}, false
}

// advanceIntruders moves every intruder one step along a shortest path to
// the marine, closed doors blocking. Movement is computed from a snapshot
// of positions so an intruder never moves twice; packs merging into the
// same room pool their hit points.
func (e *Engine) advanceIntruders(s *types.GameState) {
	moved := make(map[types.RoomID]int, len(s.Intruders))
	for _, r := range sortedRooms(s.Intruders) {
		hp := s.Intruders[r]
		next, ok := e.stepToward(s, r, s.PlayerRoom)
		if !ok {
			next = r
		}
		moved[next] += hp
	}
	s.Intruders = moved
}

// stepToward returns the first room on a shortest open path from src to
// dst. Ties break toward the lexically smaller neighbor because neighbor
// lists are sorted.
func (e *Engine) stepToward(s *types.GameState, src, dst types.RoomID) (types.RoomID, bool) {
	if src == dst {
		return src, false
	}
	prev := map[types.RoomID]types.RoomID{src: src}
	queue := []types.RoomID{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range e.Board.Neighbors(cur) {
			if s.Doors[board.NormEdge(cur, n)] {
				continue
			}
			if _, seen := prev[n]; seen {
				continue
			}
			prev[n] = cur
			if n == dst {
				// Walk back to the step adjacent to src.
				step := n
				for prev[step] != src {
					step = prev[step]
				}
				return step, true
			}
			queue = append(queue, n)
		}
	}
	return src, false
}

// resolveCleanup closes the round: the countdown ticks while armed, oxygen
// drains where life support is down, and the loss conditions are checked.
// Escape has already been evaluated (it resolves immediately), so destruct
// expiry deterministically loses same-round races.
func (e *Engine) resolveCleanup(s *types.GameState) {
	if s.GameOver {
		return
	}
	s.Round++
	if s.SelfDestructArmed {
		s.DestructTimer--
		if s.DestructTimer <= 0 {
			s.DestructTimer = 0
			s.GameOver = true
			s.Win = false
			return
		}
	}
	if !s.LifeSupport[e.Board.Section(s.PlayerRoom)] {
		s.Oxygen--
		if s.Oxygen <= 0 {
			s.Oxygen = 0
			s.GameOver = true
			s.Win = false
		}
	}
}

func sortedRooms(m map[types.RoomID]int) []types.RoomID {
	out := make([]types.RoomID, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
