package board

import (
	"testing"

	"github.com/0xtyls/n-r-ai/types"
)

func TestNormEdge(t *testing.T) {
	e := NormEdge("B", "A")
	if e.A != "A" || e.B != "B" {
		t.Errorf("NormEdge(B,A) = %v, want {A B}", e)
	}
	if e != NormEdge("A", "B") {
		t.Error("normalized edges should compare equal regardless of input order")
	}
}

func TestNewValidation(t *testing.T) {
	rooms := []RoomDef{
		{ID: "A", Section: "BOW"},
		{ID: "B", Section: "BOW"},
	}

	cases := []struct {
		name  string
		rooms []RoomDef
		edges []types.Edge
	}{
		{"no rooms", nil, nil},
		{"empty room id", []RoomDef{{ID: ""}}, nil},
		{"duplicate room", append(rooms, RoomDef{ID: "A"}), nil},
		{"self edge", rooms, []types.Edge{{A: "A", B: "A"}}},
		{"unknown endpoint", rooms, []types.Edge{{A: "A", B: "Z"}}},
		{"duplicate edge", rooms, []types.Edge{{A: "A", B: "B"}, {A: "B", B: "A"}}},
	}
	for _, tc := range cases {
		if _, err := New(tc.rooms, tc.edges); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestRoomDefaults(t *testing.T) {
	b, err := New([]RoomDef{{ID: "X"}}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.RoomType("X") != types.RoomPlain {
		t.Errorf("empty type should default to PLAIN, got %q", b.RoomType("X"))
	}
	if b.Section("X") != "MAIN" {
		t.Errorf("empty section should default to MAIN, got %q", b.Section("X"))
	}
	if b.RoomType("missing") != types.RoomPlain {
		t.Error("unknown room should report PLAIN")
	}
}

func TestNeighborsSorted(t *testing.T) {
	b, err := New(
		[]RoomDef{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}},
		[]types.Edge{{A: "A", B: "D"}, {A: "A", B: "B"}, {A: "A", B: "C"}},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := b.Neighbors("A")
	want := []types.RoomID{"B", "C", "D"}
	if len(got) != len(want) {
		t.Fatalf("Neighbors(A) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Neighbors(A) = %v, want %v", got, want)
		}
	}

	edges := b.IncidentEdges("A")
	for i := 1; i < len(edges); i++ {
		if edges[i-1].A > edges[i].A || (edges[i-1].A == edges[i].A && edges[i-1].B > edges[i].B) {
			t.Errorf("IncidentEdges not sorted: %v", edges)
		}
	}
}

func TestDefaultBoard(t *testing.T) {
	b := Default()

	if got := len(b.Rooms()); got != 5 {
		t.Fatalf("rooms = %d, want 5", got)
	}
	if b.RoomType("E") != types.RoomEngine {
		t.Errorf("room E type = %q, want ENGINE", b.RoomType("E"))
	}
	if !b.HasEdge("A", "B") || !b.HasEdge("D", "E") {
		t.Error("line topology missing expected edges")
	}
	if b.HasEdge("A", "E") {
		t.Error("unexpected edge A-E")
	}
	secs := b.Sections()
	if len(secs) != 2 || secs[0] != "BOW" || secs[1] != "STERN" {
		t.Errorf("sections = %v", secs)
	}
}
