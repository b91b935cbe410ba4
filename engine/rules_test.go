package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/engine/state"
	"github.com/0xtyls/n-r-ai/types"
)

// newGame builds a fresh engine and state on the default five-room ship.
func newGame(t *testing.T) (*Engine, *types.GameState) {
	t.Helper()
	e := New(board.Default())
	s, err := state.New(e.Board, state.DefaultSetup(), 1)
	if err != nil {
		t.Fatalf("state.New: %v", err)
	}
	return e, s
}

// mustApply fails the test if the action is rejected.
func mustApply(t *testing.T, e *Engine, s *types.GameState, a types.Action) *types.GameState {
	t.Helper()
	next, err := e.Apply(s, a)
	if err != nil {
		t.Fatalf("Apply(%v): %v", a, err)
	}
	return next
}

// advanceRound drives END_PLAYER_PHASE plus the three automatic phases,
// returning the state at the next PLAYER decision point.
func advanceRound(t *testing.T, e *Engine, s *types.GameState) *types.GameState {
	t.Helper()
	s = mustApply(t, e, s, types.Action{Kind: types.ActionEndPlayerPhase})
	for !s.GameOver && s.Phase != types.PhasePlayer {
		s = mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})
	}
	return s
}

func hasAction(actions []types.Action, a types.Action) bool {
	for _, la := range actions {
		if la == a {
			return true
		}
	}
	return false
}

func hasKind(actions []types.Action, k types.ActionKind) bool {
	for _, la := range actions {
		if la.Kind == k {
			return true
		}
	}
	return false
}

func TestLegalActionsStableOrder(t *testing.T) {
	e, s := newGame(t)

	first := e.LegalActions(s)
	for i := 0; i < 10; i++ {
		if !reflect.DeepEqual(first, e.LegalActions(s)) {
			t.Fatal("LegalActions order varies between calls on the same state")
		}
	}
	if len(first) == 0 {
		t.Fatal("no legal actions at game start")
	}
	// PASS and END_PLAYER_PHASE close the list.
	if first[len(first)-2].Kind != types.ActionPass || first[len(first)-1].Kind != types.ActionEndPlayerPhase {
		t.Errorf("list should end with PASS, END_PLAYER_PHASE: %v", first[len(first)-2:])
	}
}

func TestLegalActionsTerminalAndAutomatic(t *testing.T) {
	e, s := newGame(t)

	s.GameOver = true
	if got := e.LegalActions(s); got != nil {
		t.Errorf("terminal state should have no actions, got %v", got)
	}

	s.GameOver = false
	s.Phase = types.PhaseEnemy
	got := e.LegalActions(s)
	if len(got) != 1 || got[0].Kind != types.ActionNextPhase {
		t.Errorf("automatic phase should offer only NEXT_PHASE, got %v", got)
	}
}

func TestApplyRejectsIllegalAction(t *testing.T) {
	e, s := newGame(t)

	// E is not adjacent to A.
	_, err := e.Apply(s, types.Action{Kind: types.ActionMove, To: "E"})
	if err == nil {
		t.Fatal("expected rejection")
	}
	var illegal *IllegalActionError
	if !errors.As(err, &illegal) {
		t.Fatalf("error type = %T, want IllegalActionError", err)
	}
	if illegal.Phase != types.PhasePlayer {
		t.Errorf("error phase = %s", illegal.Phase)
	}
}

func TestApplyIsPure(t *testing.T) {
	e, s := newGame(t)
	before, err := state.New(e.Board, state.DefaultSetup(), 1)
	if err != nil {
		t.Fatalf("state.New: %v", err)
	}

	next := mustApply(t, e, s, types.Action{Kind: types.ActionMove, To: "B"})

	if !reflect.DeepEqual(s, before) {
		t.Error("Apply mutated its input state")
	}
	if next.PlayerRoom != "B" || s.PlayerRoom != "A" {
		t.Errorf("rooms: next=%s input=%s", next.PlayerRoom, s.PlayerRoom)
	}
}

func TestActionBudget(t *testing.T) {
	e, s := newGame(t)

	s = mustApply(t, e, s, types.Action{Kind: types.ActionMove, To: "B"})
	s = mustApply(t, e, s, types.Action{Kind: types.ActionMove, To: "C"})

	got := e.LegalActions(s)
	if len(got) != 2 || got[0].Kind != types.ActionPass || got[1].Kind != types.ActionEndPlayerPhase {
		t.Errorf("after spending the budget only PASS and END should remain, got %v", got)
	}

	// PASS resets the budget without changing phase.
	s = mustApply(t, e, s, types.Action{Kind: types.ActionPass})
	if s.Phase != types.PhasePlayer {
		t.Errorf("phase after PASS = %s", s.Phase)
	}
	if !hasKind(e.LegalActions(s), types.ActionMove) {
		t.Error("budget should be restored after PASS")
	}
}

func TestShootRequiresAmmoAndWorkingWeapon(t *testing.T) {
	e, s := newGame(t)
	s.Intruders["A"] = 2

	if !hasKind(e.LegalActions(s), types.ActionShoot) {
		t.Fatal("SHOOT should be legal with ammo and a target")
	}

	s.Ammo = 0
	if hasKind(e.LegalActions(s), types.ActionShoot) {
		t.Error("SHOOT should be absent with ammo = 0")
	}

	s.Ammo = 3
	s.WeaponJammed = true
	if hasKind(e.LegalActions(s), types.ActionShoot) {
		t.Error("SHOOT should be absent while jammed")
	}
	if hasKind(e.LegalActions(s), types.ActionBurst) {
		t.Error("BURST should be absent while jammed")
	}
	if !hasKind(e.LegalActions(s), types.ActionMelee) {
		t.Error("MELEE should stay legal while jammed")
	}
}

func TestUseRoomAndEscapeAvailability(t *testing.T) {
	e, s := newGame(t)

	// A is fire control: USE_ROOM yes, ESCAPE no.
	got := e.LegalActions(s)
	if !hasKind(got, types.ActionUseRoom) {
		t.Error("USE_ROOM should be legal in a special room")
	}
	if hasKind(got, types.ActionEscape) {
		t.Error("ESCAPE should be illegal outside the engine room")
	}

	s.PlayerRoom = "E"
	got = e.LegalActions(s)
	if !hasAction(got, types.Action{Kind: types.ActionEscape}) {
		t.Error("ESCAPE should be legal in the engine room")
	}
}
