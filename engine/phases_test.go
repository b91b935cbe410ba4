package engine

import (
	"testing"

	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/types"
)

func endPlayerPhase(t *testing.T, e *Engine, s *types.GameState) *types.GameState {
	t.Helper()
	return mustApply(t, e, s, types.Action{Kind: types.ActionEndPlayerPhase})
}

func TestPhaseCycle(t *testing.T) {
	e, s := newGame(t)

	s = endPlayerPhase(t, e, s)
	if s.Phase != types.PhaseEnemy {
		t.Fatalf("phase = %s, want ENEMY", s.Phase)
	}
	s = mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})
	if s.Phase != types.PhaseEvent {
		t.Fatalf("phase = %s, want EVENT", s.Phase)
	}
	s = mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})
	if s.Phase != types.PhaseCleanup {
		t.Fatalf("phase = %s, want CLEANUP", s.Phase)
	}
	s = mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})
	if s.Phase != types.PhasePlayer {
		t.Fatalf("phase = %s, want PLAYER", s.Phase)
	}
	if s.Round != 2 {
		t.Errorf("round = %d, want 2", s.Round)
	}
	if s.ActionsInTurn != 0 {
		t.Errorf("action budget not reset: %d", s.ActionsInTurn)
	}
}

func TestEnemyPhaseAttack(t *testing.T) {
	e, s := newGame(t)
	s.Intruders["A"] = 2

	next := endPlayerPhase(t, e, s)

	if next.Health != s.Health-1 {
		t.Errorf("co-located intruder should attack, health %d -> %d", s.Health, next.Health)
	}
}

func TestEnemyPhaseFireBurnsToFloor(t *testing.T) {
	e, s := newGame(t)
	s.Intruders["C"] = 3
	s.Intruders["D"] = 1
	s.Fires["C"] = true
	s.Fires["D"] = true

	next := endPlayerPhase(t, e, s)

	if next.Intruders["C"] != 2 {
		t.Errorf("burning intruder hp = %d, want 2", next.Intruders["C"])
	}
	if next.Intruders["D"] != 1 {
		t.Errorf("burn should never drop below 1 hp, got %d", next.Intruders["D"])
	}
}

func TestEventPhaseEmptyDeckIsNoOp(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	if next.Phase != types.PhaseEvent {
		t.Fatalf("phase = %s, want EVENT", next.Phase)
	}
	if next.Oxygen != s.Oxygen || next.Health != s.Health || len(next.Intruders) != 0 {
		t.Error("empty event deck should change nothing but the phase")
	}
}

func TestEventBagDev(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy
	s.EventDeck = []types.EventCard{{Kind: types.EventBagDev, Token: types.TokenAdult}}

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	if next.Bag[types.TokenAdult] != 1 {
		t.Errorf("bag ADULT = %d, want 1", next.Bag[types.TokenAdult])
	}
	if next.BagDevCount != 1 {
		t.Errorf("bag dev counter = %d, want 1", next.BagDevCount)
	}
	if len(next.EventDeck) != 0 {
		t.Error("event card not consumed")
	}
}

func TestEventBagDevDefaultsToLarva(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy
	s.EventDeck = []types.EventCard{{Kind: types.EventBagDev}}

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	if next.Bag[types.TokenLarva] != 1 {
		t.Errorf("bag = %v, want one LARVA", next.Bag)
	}
}

func TestEventSpawnFromBagLexicalOrder(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy
	s.Bag = map[types.TokenKind]int{types.TokenQueen: 1, types.TokenAdult: 1}
	s.EventDeck = []types.EventCard{{Kind: types.EventSpawnFromBag}}

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	// ADULT < QUEEN lexically; an adult has 2 hp.
	if next.Intruders["A"] != 2 {
		t.Errorf("intruders = %v, want adult (2 hp) in A", next.Intruders)
	}
	if next.Bag[types.TokenAdult] != 0 || next.Bag[types.TokenQueen] != 1 {
		t.Errorf("bag after draw = %v", next.Bag)
	}
}

func TestEventSpawnFromEmptyBag(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy
	s.EventDeck = []types.EventCard{{Kind: types.EventSpawnFromBag}}

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	if len(next.Intruders) != 0 {
		t.Errorf("empty bag should spawn nothing: %v", next.Intruders)
	}
}

func TestEventNoise(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy
	s.EventDeck = []types.EventCard{{Kind: types.EventNoiseRoom}}

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})
	if next.RoomNoise["A"] != 1 {
		t.Errorf("room noise = %d, want 1", next.RoomNoise["A"])
	}

	s.EventDeck = []types.EventCard{{Kind: types.EventNoiseCorr}}
	next = mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})
	if next.Noise[board.NormEdge("A", "B")] != 1 {
		t.Errorf("corridor noise should land on the first open edge: %v", next.Noise)
	}
}

func TestEventNoiseCorridorFallsBackWhenSealed(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy
	s.Doors[board.NormEdge("A", "B")] = true
	s.EventDeck = []types.EventCard{{Kind: types.EventNoiseCorr}}

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	if next.RoomNoise["A"] != 1 {
		t.Errorf("sealed room should take the noise itself: %v", next.RoomNoise)
	}
}

func TestEventOxygenLeakDisablesSection(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy
	s.EventDeck = []types.EventCard{{Kind: types.EventOxygenLeak}}

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	if next.LifeSupport["BOW"] {
		t.Error("leak should disable the local section")
	}
	if !next.LifeSupport["STERN"] {
		t.Error("leak should not touch other sections")
	}
}

func TestEventFireRoom(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy
	s.EventDeck = []types.EventCard{{Kind: types.EventFireRoom}}

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	if !next.Fires["A"] {
		t.Error("fire should start in the marine's room")
	}
}

func TestIntrudersPursueAfterEvents(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy
	s.Intruders["D"] = 2

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	// One BFS step along D-C-B-A.
	if next.Intruders["C"] != 2 {
		t.Errorf("intruder should step to C: %v", next.Intruders)
	}
}

func TestPursuitBlockedByDoor(t *testing.T) {
	e, s := newGame(t)
	s.Phase = types.PhaseEnemy
	s.Intruders["C"] = 1
	s.Doors[board.NormEdge("B", "C")] = true

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	if next.Intruders["C"] != 1 {
		t.Errorf("blocked intruder should stay put: %v", next.Intruders)
	}
}

func TestPursuitMergesPacks(t *testing.T) {
	e, s := newGame(t)
	s.PlayerRoom = "C"
	s.Discovered["C"] = true
	s.Phase = types.PhaseEnemy
	s.Intruders["B"] = 2
	s.Intruders["D"] = 1

	next := mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})

	if next.Intruders["C"] != 3 {
		t.Errorf("packs converging on C should pool hp: %v", next.Intruders)
	}
}

func TestCleanupOxygenDrain(t *testing.T) {
	e, s := newGame(t)
	s.LifeSupport["BOW"] = false
	s.Oxygen = 2

	s = advanceRound(t, e, s)
	if s.Oxygen != 1 || s.GameOver {
		t.Fatalf("oxygen = %d gameOver = %v, want 1/false", s.Oxygen, s.GameOver)
	}

	s = advanceRound(t, e, s)
	if !s.GameOver || s.Win {
		t.Fatal("oxygen reaching 0 should lose the game")
	}
	if s.Oxygen != 0 {
		t.Errorf("oxygen = %d, want 0", s.Oxygen)
	}
}

func TestCleanupNoDrainWithLifeSupport(t *testing.T) {
	e, s := newGame(t)
	s.Oxygen = 2

	s = advanceRound(t, e, s)

	if s.Oxygen != 2 {
		t.Errorf("oxygen should hold with life support on, got %d", s.Oxygen)
	}
}

func TestSelfDestructCountdown(t *testing.T) {
	e, s := newGame(t)
	s.PlayerRoom = "E"
	s.Discovered["E"] = true

	s = mustApply(t, e, s, types.Action{Kind: types.ActionUseRoom})
	if !s.SelfDestructArmed || s.DestructTimer != 3 {
		t.Fatalf("arming: armed=%v timer=%d, want true/3", s.SelfDestructArmed, s.DestructTimer)
	}

	s = advanceRound(t, e, s)
	if s.DestructTimer != 2 || s.GameOver {
		t.Fatalf("after round 1: timer=%d gameOver=%v", s.DestructTimer, s.GameOver)
	}
	s = advanceRound(t, e, s)
	if s.DestructTimer != 1 || s.GameOver {
		t.Fatalf("after round 2: timer=%d gameOver=%v", s.DestructTimer, s.GameOver)
	}

	s = mustApply(t, e, s, types.Action{Kind: types.ActionEndPlayerPhase})
	s = mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})
	s = mustApply(t, e, s, types.Action{Kind: types.ActionNextPhase})
	if !s.GameOver || s.Win {
		t.Fatal("countdown expiry should lose the game")
	}
	if s.DestructTimer != 0 {
		t.Errorf("timer = %d, want 0", s.DestructTimer)
	}
}

func TestEscapeWinsImmediately(t *testing.T) {
	e, s := newGame(t)
	s.PlayerRoom = "E"
	s.Discovered["E"] = true
	s.SelfDestructArmed = true
	s.DestructTimer = 1

	next := mustApply(t, e, s, types.Action{Kind: types.ActionEscape})

	if !next.GameOver || !next.Win {
		t.Fatal("ESCAPE in the engine room should win on the spot")
	}
	if got := e.LegalActions(next); got != nil {
		t.Errorf("won game should have no actions, got %v", got)
	}
}

func TestUseRoomEffects(t *testing.T) {
	e, s := newGame(t)

	// A: fire control.
	s.Fires["A"] = true
	next := mustApply(t, e, s, types.Action{Kind: types.ActionUseRoom})
	if next.Fires["A"] {
		t.Error("fire control should extinguish the local fire")
	}

	// B: control room toggles the section.
	s.PlayerRoom = "B"
	s.Discovered["B"] = true
	next = mustApply(t, e, s, types.Action{Kind: types.ActionUseRoom})
	if next.LifeSupport["BOW"] {
		t.Error("control room should toggle BOW life support off")
	}
	next = mustApply(t, e, next, types.Action{Kind: types.ActionUseRoom})
	if !next.LifeSupport["BOW"] {
		t.Error("second toggle should turn it back on")
	}

	// C: armory reloads and unjams.
	s.PlayerRoom = "C"
	s.Discovered["C"] = true
	s.Ammo = 0
	s.WeaponJammed = true
	next = mustApply(t, e, s, types.Action{Kind: types.ActionUseRoom})
	if next.Ammo != next.AmmoMax || next.WeaponJammed {
		t.Errorf("armory: ammo=%d jammed=%v", next.Ammo, next.WeaponJammed)
	}

	// D: surgery heals and clears a wound.
	s.PlayerRoom = "D"
	s.Discovered["D"] = true
	s.Ammo = 3
	s.WeaponJammed = false
	s.Health = 2
	s.SeriousWounds = 1
	next = mustApply(t, e, s, types.Action{Kind: types.ActionUseRoom})
	if next.Health != 3 || next.SeriousWounds != 0 {
		t.Errorf("surgery: health=%d wounds=%d", next.Health, next.SeriousWounds)
	}

	// Surgery at full health only clears wounds.
	s.Health = s.HealthMax
	next = mustApply(t, e, s, types.Action{Kind: types.ActionUseRoom})
	if next.Health != s.HealthMax {
		t.Errorf("surgery should not overheal: %d", next.Health)
	}
}

func TestPassBurnsInFire(t *testing.T) {
	e, s := newGame(t)
	s.Fires["A"] = true

	next := mustApply(t, e, s, types.Action{Kind: types.ActionPass})

	if next.Health != s.Health-1 {
		t.Errorf("ending the turn in fire should cost 1 health, %d -> %d", s.Health, next.Health)
	}
}
