package engine

import (
	"testing"

	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/types"
)

func TestMoveMakesTraversalNoise(t *testing.T) {
	e, s := newGame(t)

	next := mustApply(t, e, s, types.Action{Kind: types.ActionMove, To: "B"})

	if next.PlayerRoom != "B" {
		t.Fatalf("room = %s, want B", next.PlayerRoom)
	}
	if got := next.Noise[board.NormEdge("A", "B")]; got != e.Config.NoiseIncrement {
		t.Errorf("traversal noise = %d, want %d", got, e.Config.NoiseIncrement)
	}
	if !next.Discovered["B"] {
		t.Error("entering a room should discover it")
	}
}

func TestMoveCautiousPlacesChosenNoise(t *testing.T) {
	e, s := newGame(t)
	s.Discovered["B"] = true

	chosen := board.NormEdge("B", "C")
	next := mustApply(t, e, s, types.Action{
		Kind: types.ActionMoveCautious, To: "B", NoiseEdge: chosen,
	})

	if got := next.Noise[chosen]; got != e.Config.NoiseIncrement {
		t.Errorf("chosen edge noise = %d, want %d", got, e.Config.NoiseIncrement)
	}
	if got := next.Noise[board.NormEdge("A", "B")]; got != 0 {
		t.Errorf("traversal edge should stay quiet, has %d", got)
	}
}

func TestCautiousNoiseEdgesEnumerated(t *testing.T) {
	e, s := newGame(t)

	var edges []types.Edge
	for _, a := range e.LegalActions(s) {
		if a.Kind == types.ActionMoveCautious && a.To == "B" {
			edges = append(edges, a.NoiseEdge)
		}
	}
	// B has corridors A-B and B-C, both open.
	if len(edges) != 2 {
		t.Fatalf("cautious noise options = %v, want both incident edges of B", edges)
	}
	if edges[0] != board.NormEdge("A", "B") || edges[1] != board.NormEdge("B", "C") {
		t.Errorf("cautious options out of order: %v", edges)
	}
}

func TestClosedDoorBlocksMovementAndNoise(t *testing.T) {
	e, s := newGame(t)
	s.Doors[board.NormEdge("A", "B")] = true

	got := e.LegalActions(s)
	if hasAction(got, types.Action{Kind: types.ActionMove, To: "B"}) {
		t.Error("MOVE through a closed door should be illegal")
	}
	if !hasAction(got, types.Action{Kind: types.ActionOpenDoor, To: "B"}) {
		t.Error("OPEN_DOOR should be offered at a closed door")
	}
	if hasAction(got, types.Action{Kind: types.ActionCloseDoor, To: "B"}) {
		t.Error("CLOSE_DOOR should not be offered at an already closed door")
	}
}

func TestOpenAndCloseDoor(t *testing.T) {
	e, s := newGame(t)
	edge := board.NormEdge("A", "B")
	s.Doors[edge] = true

	s = mustApply(t, e, s, types.Action{Kind: types.ActionOpenDoor, To: "B"})
	if s.Doors[edge] {
		t.Fatal("door still closed after OPEN_DOOR")
	}

	s = mustApply(t, e, s, types.Action{Kind: types.ActionCloseDoor, To: "B"})
	if !s.Doors[edge] {
		t.Fatal("door still open after CLOSE_DOOR")
	}
	if s.ActionsInTurn != 2 {
		t.Errorf("door actions should consume budget, used %d", s.ActionsInTurn)
	}
}

func TestEncounterOnAccumulatedNoise(t *testing.T) {
	e, s := newGame(t)
	s.Discovered["B"] = true
	s.Noise[board.NormEdge("B", "C")] = e.Config.EncounterThreshold

	next := mustApply(t, e, s, types.Action{Kind: types.ActionMove, To: "B"})

	if next.Intruders["B"] != 1 {
		t.Fatalf("expected a spawned intruder with 1 hp, got %v", next.Intruders)
	}
	if next.Noise[board.NormEdge("B", "C")] != 0 {
		t.Error("triggering noise should be cleared")
	}
	if next.Noise[board.NormEdge("A", "B")] != 0 {
		t.Error("an encounter move places no fresh noise")
	}
}

func TestEncounterIgnoresNoiseBehindDoors(t *testing.T) {
	e, s := newGame(t)
	s.Discovered["B"] = true
	s.Noise[board.NormEdge("B", "C")] = 5
	s.Doors[board.NormEdge("B", "C")] = true

	next := mustApply(t, e, s, types.Action{Kind: types.ActionMove, To: "B"})

	if len(next.Intruders) != 0 {
		t.Errorf("noise behind a closed door should not trigger: %v", next.Intruders)
	}
}

func TestEncounterDoesNotStackOnPresentIntruder(t *testing.T) {
	e, s := newGame(t)
	s.Discovered["B"] = true
	s.Intruders["B"] = 2
	s.RoomNoise["B"] = 3

	next := mustApply(t, e, s, types.Action{Kind: types.ActionMove, To: "B"})

	if next.Intruders["B"] != 2 {
		t.Errorf("existing intruder should not be reinforced, hp = %d", next.Intruders["B"])
	}
	if next.RoomNoise["B"] != 0 {
		t.Error("noise should still clear on the encounter")
	}
}

func TestExplorationDrawOnFirstEntry(t *testing.T) {
	e, s := newGame(t)
	s.ExplorationDeck = []types.ExplorationCard{types.EntranceCloseDoors}

	next := mustApply(t, e, s, types.Action{Kind: types.ActionMove, To: "B"})

	if len(next.ExplorationDeck) != 0 {
		t.Error("entrance card not drawn")
	}
	for _, edge := range e.Board.IncidentEdges("B") {
		if !next.Doors[edge] {
			t.Errorf("ENTRANCE_CLOSE_DOORS should shut %v", edge)
		}
	}
	if next.Noise[board.NormEdge("A", "B")] != 0 {
		t.Error("entrance resolution replaces movement noise")
	}
}

func TestCautiousFirstEntrySecuresCorridor(t *testing.T) {
	e, s := newGame(t)
	s.ExplorationDeck = []types.ExplorationCard{types.EntranceNoiseRoom}

	traversal := board.NormEdge("A", "B")
	next := mustApply(t, e, s, types.Action{
		Kind: types.ActionMoveCautious, To: "B", NoiseEdge: traversal,
	})

	if !next.SecureTokens[traversal] {
		t.Error("cautious first entry should secure the corridor")
	}
	if len(next.ExplorationDeck) != 1 {
		t.Error("cautious entry should not draw an entrance card")
	}
	if next.Noise[traversal] != 0 {
		t.Error("cautious first entry places no noise")
	}
}
