package engine

import (
	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/types"
)

// moveActions enumerates MOVE and MOVE_CAUTIOUS. Destinations follow the
// board's sorted neighbor order; cautious noise edges follow the sorted
// incident-edge order of the destination.
func (e *Engine) moveActions(s *types.GameState) []types.Action {
	var out []types.Action
	for _, to := range e.Board.Neighbors(s.PlayerRoom) {
		if s.Doors[board.NormEdge(s.PlayerRoom, to)] {
			continue
		}
		out = append(out, types.Action{Kind: types.ActionMove, To: to})
	}
	for _, to := range e.Board.Neighbors(s.PlayerRoom) {
		if s.Doors[board.NormEdge(s.PlayerRoom, to)] {
			continue
		}
		for _, edge := range e.Board.IncidentEdges(to) {
			if s.Doors[edge] {
				continue
			}
			out = append(out, types.Action{Kind: types.ActionMoveCautious, To: to, NoiseEdge: edge})
		}
	}
	return out
}

// doorActions enumerates OPEN_DOOR and CLOSE_DOOR on corridors incident to
// the current room.
func (e *Engine) doorActions(s *types.GameState) []types.Action {
	var out []types.Action
	for _, to := range e.Board.Neighbors(s.PlayerRoom) {
		if s.Doors[board.NormEdge(s.PlayerRoom, to)] {
			out = append(out, types.Action{Kind: types.ActionOpenDoor, To: to})
		}
	}
	for _, to := range e.Board.Neighbors(s.PlayerRoom) {
		if !s.Doors[board.NormEdge(s.PlayerRoom, to)] {
			out = append(out, types.Action{Kind: types.ActionCloseDoor, To: to})
		}
	}
	return out
}

func applyMove(e *Engine, s *types.GameState, a types.Action) {
	e.enterRoom(s, a.To, false, board.NormEdge(s.PlayerRoom, a.To))
}

func applyMoveCautious(e *Engine, s *types.GameState, a types.Action) {
	e.enterRoom(s, a.To, true, a.NoiseEdge)
}

// enterRoom is the shared movement path. Resolution order: relocate, check
// for an encounter on pre-existing noise, then handle exploration or place
// movement noise. An encounter converts the accumulated noise into an
// intruder, so no fresh noise is placed on that move.
func (e *Engine) enterRoom(s *types.GameState, to types.RoomID, cautious bool, noiseEdge types.Edge) {
	traversal := board.NormEdge(s.PlayerRoom, to)
	s.PlayerRoom = to
	s.ActionsInTurn++

	encounter := e.checkEncounter(s, to)

	if !s.Discovered[to] {
		s.Discovered[to] = true
		if cautious {
			// A cautious entrance secures the corridor behind the marine
			// instead of rolling an entrance effect.
			s.SecureTokens[traversal] = true
			return
		}
		if len(s.ExplorationDeck) > 0 {
			card := s.ExplorationDeck[0]
			s.ExplorationDeck = s.ExplorationDeck[1:]
			e.resolveEntrance(s, card, to, traversal)
			return
		}
	}
	if encounter {
		return
	}
	if cautious {
		if !s.Doors[noiseEdge] {
			s.Noise[noiseEdge] += e.Config.NoiseIncrement
		}
		return
	}
	s.Noise[traversal] += e.Config.NoiseIncrement
}

// checkEncounter spawns an intruder when the noise already accumulated
// around a room reaches the threshold. The triggering noise is cleared —
// it has become the intruder. Purely a function of the state: no dice.
func (e *Engine) checkEncounter(s *types.GameState, room types.RoomID) bool {
	total := s.RoomNoise[room]
	for _, edge := range e.Board.IncidentEdges(room) {
		if s.Doors[edge] {
			continue
		}
		total += s.Noise[edge]
	}
	if total < e.Config.EncounterThreshold {
		return false
	}
	if s.Intruders[room] == 0 {
		spawnIntruder(s, room, 1)
	}
	delete(s.RoomNoise, room)
	for _, edge := range e.Board.IncidentEdges(room) {
		delete(s.Noise, edge)
	}
	return true
}

// resolveEntrance applies one exploration card to a freshly entered room.
func (e *Engine) resolveEntrance(s *types.GameState, card types.ExplorationCard, room types.RoomID, traversal types.Edge) {
	switch card {
	case types.EntranceNoiseRoom:
		s.RoomNoise[room] += e.Config.NoiseIncrement
	case types.EntranceCloseDoors:
		for _, edge := range e.Board.IncidentEdges(room) {
			s.Doors[edge] = true
		}
	case types.EntranceNoiseCorr:
		s.Noise[traversal] += e.Config.NoiseIncrement
	}
}

func applyOpenDoor(e *Engine, s *types.GameState, a types.Action) {
	delete(s.Doors, board.NormEdge(s.PlayerRoom, a.To))
	s.ActionsInTurn++
}

func applyCloseDoor(e *Engine, s *types.GameState, a types.Action) {
	s.Doors[board.NormEdge(s.PlayerRoom, a.To)] = true
	s.ActionsInTurn++
}
