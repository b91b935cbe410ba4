package save

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/engine/state"
	"github.com/0xtyls/n-r-ai/types"
)

// richState builds a state with every collection populated.
func richState(t *testing.T) *types.GameState {
	t.Helper()
	su := state.DefaultSetup()
	su.EventDeck = []types.EventCard{
		{Kind: types.EventNoiseRoom},
		{Kind: types.EventBagDev, Token: types.TokenQueen},
	}
	su.ExplorationDeck = []types.ExplorationCard{types.EntranceCloseDoors}
	su.Bag = map[types.TokenKind]int{types.TokenLarva: 2}
	su.Doors = []types.Edge{{A: "C", B: "D"}}
	su.Intruders = map[types.RoomID]int{"E": 3}

	s, err := state.New(board.Default(), su, 77)
	if err != nil {
		t.Fatalf("state.New: %v", err)
	}
	s.Turn = 9
	s.Round = 4
	s.Noise[board.NormEdge("A", "B")] = 2
	s.RoomNoise["C"] = 1
	s.Fires["B"] = true
	s.SecureTokens[board.NormEdge("D", "E")] = true
	s.Discovered["B"] = true
	s.LifeSupport["STERN"] = false
	s.WeaponJammed = true
	s.SeriousWounds = 2
	s.BagDevCount = 1
	s.SelfDestructArmed = true
	s.DestructTimer = 2
	return s
}

func TestEdgeKeyRoundTrip(t *testing.T) {
	e := types.Edge{A: "A", B: "B"}
	key := EdgeKey(e)
	if key != "A-B" {
		t.Errorf("EdgeKey = %q", key)
	}
	got, err := ParseEdgeKey(key)
	if err != nil || got != e {
		t.Errorf("ParseEdgeKey(%q) = %v, %v", key, got, err)
	}

	for _, bad := range []string{"", "AB", "-B", "A-"} {
		if _, err := ParseEdgeKey(bad); err == nil {
			t.Errorf("ParseEdgeKey(%q) should fail", bad)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := richState(t)

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !reflect.DeepEqual(s, got) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}
}

func TestEncodeIsCanonical(t *testing.T) {
	a := richState(t)
	b := richState(t)

	da, err := Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	db, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(da, db) {
		t.Error("equal states should encode to identical bytes")
	}
}

func TestStateKey(t *testing.T) {
	a := richState(t)
	b := richState(t)

	ka, err := StateKey(a)
	if err != nil {
		t.Fatalf("StateKey: %v", err)
	}
	kb, _ := StateKey(b)
	if ka != kb {
		t.Error("equal states should share a key")
	}
	if len(ka) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(ka))
	}

	b.Oxygen--
	kc, _ := StateKey(b)
	if kc == ka {
		t.Error("different states should get different keys")
	}
}

func TestDecodeRejectsMalformedEdgeKeys(t *testing.T) {
	if _, err := Decode([]byte(`{"doors":["AB"]}`)); err == nil {
		t.Error("malformed door key should fail")
	}
	if _, err := Decode([]byte(`{"noise":{"XY":1}}`)); err == nil {
		t.Error("malformed noise key should fail")
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("non-JSON should fail")
	}
}

func TestDecodeFillsNilMaps(t *testing.T) {
	s, err := Decode([]byte(`{}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.LifeSupport == nil || s.RoomNoise == nil || s.Intruders == nil || s.Bag == nil {
		t.Error("decode should never return nil maps")
	}
}
