// Package board holds the static ship topology. A Board is validated at
// construction and never changes afterwards; every GameState references the
// same Board, so queries must not allocate shared mutable data.
package board

import (
	"fmt"
	"sort"

	"github.com/0xtyls/n-r-ai/types"
)

// Board is the immutable room/corridor graph.
type Board struct {
	rooms    map[types.RoomID]types.RoomType
	sections map[types.RoomID]types.SectionID
	edges    map[types.Edge]bool
	// neighbors precomputed and sorted for deterministic iteration.
	neighbors map[types.RoomID][]types.RoomID
}

// RoomDef describes one room for construction.
type RoomDef struct {
	ID      types.RoomID
	Type    types.RoomType
	Section types.SectionID
}

// NormEdge returns the normalized undirected edge between a and b.
func NormEdge(a, b types.RoomID) types.Edge {
	if b < a {
		a, b = b, a
	}
	return types.Edge{A: a, B: b}
}

// New builds and validates a board. Every edge must join two distinct,
// defined rooms; duplicate rooms are rejected. An out-of-range room or edge
// reference is a construction-time error, not a runtime surprise.
func New(rooms []RoomDef, edges []types.Edge) (*Board, error) {
	if len(rooms) == 0 {
		return nil, fmt.Errorf("board: no rooms defined")
	}
	b := &Board{
		rooms:     make(map[types.RoomID]types.RoomType, len(rooms)),
		sections:  make(map[types.RoomID]types.SectionID, len(rooms)),
		edges:     make(map[types.Edge]bool, len(edges)),
		neighbors: make(map[types.RoomID][]types.RoomID, len(rooms)),
	}
	for _, r := range rooms {
		if r.ID == "" {
			return nil, fmt.Errorf("board: room with empty id")
		}
		if _, dup := b.rooms[r.ID]; dup {
			return nil, fmt.Errorf("board: duplicate room %q", r.ID)
		}
		typ := r.Type
		if typ == "" {
			typ = types.RoomPlain
		}
		sec := r.Section
		if sec == "" {
			sec = "MAIN"
		}
		b.rooms[r.ID] = typ
		b.sections[r.ID] = sec
	}
	for _, e := range edges {
		ne := NormEdge(e.A, e.B)
		if ne.A == ne.B {
			return nil, fmt.Errorf("board: edge %q-%q joins a room to itself", e.A, e.B)
		}
		if _, ok := b.rooms[ne.A]; !ok {
			return nil, fmt.Errorf("board: edge references unknown room %q", ne.A)
		}
		if _, ok := b.rooms[ne.B]; !ok {
			return nil, fmt.Errorf("board: edge references unknown room %q", ne.B)
		}
		if b.edges[ne] {
			return nil, fmt.Errorf("board: duplicate edge %q-%q", ne.A, ne.B)
		}
		b.edges[ne] = true
		b.neighbors[ne.A] = append(b.neighbors[ne.A], ne.B)
		b.neighbors[ne.B] = append(b.neighbors[ne.B], ne.A)
	}
	for id := range b.neighbors {
		ns := b.neighbors[id]
		sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
	}
	return b, nil
}

// HasRoom reports whether id is a room on this board.
func (b *Board) HasRoom(id types.RoomID) bool {
	_, ok := b.rooms[id]
	return ok
}

// HasEdge reports whether a corridor joins a and b.
func (b *Board) HasEdge(a, bb types.RoomID) bool {
	return b.edges[NormEdge(a, bb)]
}

// RoomType returns the type tag of a room (RoomPlain for unknown rooms).
func (b *Board) RoomType(id types.RoomID) types.RoomType {
	if t, ok := b.rooms[id]; ok {
		return t
	}
	return types.RoomPlain
}

// Section returns the life-support section a room belongs to.
func (b *Board) Section(id types.RoomID) types.SectionID {
	return b.sections[id]
}

// Neighbors returns the rooms adjacent to id, sorted. The returned slice is
// shared; callers must not modify it.
func (b *Board) Neighbors(id types.RoomID) []types.RoomID {
	return b.neighbors[id]
}

// IncidentEdges returns the normalized edges touching id, sorted by the far
// room.
func (b *Board) IncidentEdges(id types.RoomID) []types.Edge {
	ns := b.neighbors[id]
	out := make([]types.Edge, 0, len(ns))
	for _, n := range ns {
		out = append(out, NormEdge(id, n))
	}
	return out
}

// Rooms returns all room ids, sorted.
func (b *Board) Rooms() []types.RoomID {
	out := make([]types.RoomID, 0, len(b.rooms))
	for id := range b.rooms {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Edges returns all edges, sorted.
func (b *Board) Edges() []types.Edge {
	out := make([]types.Edge, 0, len(b.edges))
	for e := range b.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Sections returns the distinct section ids, sorted.
func (b *Board) Sections() []types.SectionID {
	seen := map[types.SectionID]bool{}
	var out []types.SectionID
	for _, s := range b.sections {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Default returns the five-room scratch ship used by tests and the demo
// scenario: A fire control, B control, C armory, D surgery, E engine, laid
// out in a line A-B-C-D-E. A through C sit in the BOW section, D and E in
// STERN.
func Default() *Board {
	b, err := New(
		[]RoomDef{
			{ID: "A", Type: types.RoomFireControl, Section: "BOW"},
			{ID: "B", Type: types.RoomControl, Section: "BOW"},
			{ID: "C", Type: types.RoomArmory, Section: "BOW"},
			{ID: "D", Type: types.RoomSurgery, Section: "STERN"},
			{ID: "E", Type: types.RoomEngine, Section: "STERN"},
		},
		[]types.Edge{
			{A: "A", B: "B"},
			{A: "B", B: "C"},
			{A: "C", B: "D"},
			{A: "D", B: "E"},
		},
	)
	if err != nil {
		panic(err) // static data, cannot fail
	}
	return b
}
