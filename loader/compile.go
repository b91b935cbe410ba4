// Package loader loads Lua scenario content into Go structs at startup.
// The Lua VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/engine/state"
	"github.com/0xtyls/n-r-ai/types"
)

// rawRoom holds a room table before compilation.
type rawRoom struct {
	id    string
	table *lua.LTable
}

// rawCorridor holds a corridor declaration before compilation.
type rawCorridor struct {
	a, b string
	door bool
}

// rawIntruder holds a pre-placed intruder before compilation.
type rawIntruder struct {
	room string
	hp   int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or the default if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// compile converts the validated collector contents into a Scenario.
func compile(coll *collector) (*Scenario, error) {
	rooms := make([]board.RoomDef, 0, len(coll.rooms))
	for _, r := range coll.rooms {
		rt := types.RoomType(getString(r.table, "type"))
		if rt == "" {
			rt = types.RoomPlain
		}
		rooms = append(rooms, board.RoomDef{
			ID:      types.RoomID(r.id),
			Type:    rt,
			Section: types.SectionID(getString(r.table, "section")),
		})
	}

	edges := make([]types.Edge, 0, len(coll.corridors))
	var doors []types.Edge
	for _, c := range coll.corridors {
		e := board.NormEdge(types.RoomID(c.a), types.RoomID(c.b))
		edges = append(edges, e)
		if c.door {
			doors = append(doors, e)
		}
	}

	b, err := board.New(rooms, edges)
	if err != nil {
		return nil, err
	}

	su := state.DefaultSetup()
	su.Start = types.RoomID(getString(coll.game, "start"))
	su.Doors = doors

	if coll.marine != nil {
		su.Health = getInt(coll.marine, "health", su.Health)
		su.Oxygen = getInt(coll.marine, "oxygen", su.Oxygen)
		su.Ammo = getInt(coll.marine, "ammo", su.Ammo)
		su.AmmoMax = getInt(coll.marine, "ammo_max", su.AmmoMax)
	}
	if coll.hasAttack {
		su.AttackDeck = coll.attackDeck
	}
	if coll.hasExploration {
		su.ExplorationDeck = compileExplorationDeck(coll)
	}

	if coll.events != nil {
		deck, err := compileEventDeck(coll.events)
		if err != nil {
			return nil, err
		}
		su.EventDeck = deck
	}

	if coll.bag != nil {
		bag := map[types.TokenKind]int{}
		coll.bag.ForEach(func(k, v lua.LValue) {
			ks, kok := k.(lua.LString)
			vn, vok := v.(lua.LNumber)
			if kok && vok && int(vn) > 0 {
				bag[types.TokenKind(ks)] = int(vn)
			}
		})
		su.Bag = bag
	}

	if len(coll.intruders) > 0 {
		su.Intruders = map[types.RoomID]int{}
		for _, in := range coll.intruders {
			su.Intruders[types.RoomID(in.room)] = in.hp
		}
	}

	return &Scenario{
		Title: getString(coll.game, "title"),
		Board: b,
		Setup: su,
	}, nil
}

// entranceCycle is the deal order used when a scenario gives only a deck
// size. Fixed so the same scenario always produces the same deck.
var entranceCycle = []types.ExplorationCard{
	types.EntranceNoiseRoom,
	types.EntranceCloseDoors,
	types.EntranceNoiseCorr,
}

// compileExplorationDeck expands a deck size into the fixed entrance cycle,
// or copies an explicit card list verbatim.
func compileExplorationDeck(coll *collector) []types.ExplorationCard {
	if coll.explorationCards != nil {
		deck := make([]types.ExplorationCard, 0, coll.explorationCards.MaxN())
		for i := 1; i <= coll.explorationCards.MaxN(); i++ {
			if s, ok := coll.explorationCards.RawGetInt(i).(lua.LString); ok {
				deck = append(deck, types.ExplorationCard(s))
			}
		}
		return deck
	}
	deck := make([]types.ExplorationCard, coll.explorationCount)
	for i := range deck {
		deck[i] = entranceCycle[i%len(entranceCycle)]
	}
	return deck
}

// compileEventDeck accepts entries that are either a bare kind string or a
// { kind = "...", token = "..." } table.
func compileEventDeck(tbl *lua.LTable) ([]types.EventCard, error) {
	deck := make([]types.EventCard, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		switch v := tbl.RawGetInt(i).(type) {
		case lua.LString:
			deck = append(deck, types.EventCard{Kind: types.EventCardKind(v)})
		case *lua.LTable:
			deck = append(deck, types.EventCard{
				Kind:  types.EventCardKind(getString(v, "kind")),
				Token: types.TokenKind(getString(v, "token")),
			})
		default:
			return nil, fmt.Errorf("event deck entry %d: expected string or table, got %s", i, v.Type())
		}
	}
	return deck, nil
}
