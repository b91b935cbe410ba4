package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", start = "..." }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Room "id" { type = "...", section = "..." } — curried: Room("id")
	// returns a function that takes the body table.
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rooms = append(coll.rooms, rawRoom{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Corridor("a", "b") or Corridor("a", "b", { door = true })
	L.SetGlobal("Corridor", L.NewFunction(func(L *lua.LState) int {
		a := L.CheckString(1)
		b := L.CheckString(2)
		door := false
		if L.GetTop() >= 3 {
			if tbl, ok := L.Get(3).(*lua.LTable); ok {
				door = getBool(tbl, "door", false)
			}
		}
		coll.corridors = append(coll.corridors, rawCorridor{a: a, b: b, door: door})
		return 0
	}))

	// Marine { health = 5, oxygen = 5, ammo = 3, ammo_max = 6 }
	L.SetGlobal("Marine", L.NewFunction(func(L *lua.LState) int {
		coll.marine = L.CheckTable(1)
		return 0
	}))

	// EventDeck { "NOISE_ROOM", { kind = "BAG_DEV", token = "ADULT" }, ... }
	L.SetGlobal("EventDeck", L.NewFunction(func(L *lua.LState) int {
		coll.events = L.CheckTable(1)
		return 0
	}))

	// ExplorationDeck(5) deals five cards in a fixed cycle;
	// ExplorationDeck { "ENTRANCE_NOISE_ROOM", ... } gives an explicit order.
	L.SetGlobal("ExplorationDeck", L.NewFunction(func(L *lua.LState) int {
		switch v := L.Get(1).(type) {
		case lua.LNumber:
			coll.explorationCount = int(v)
		case *lua.LTable:
			coll.explorationCards = v
		default:
			L.ArgError(1, "number or table expected")
		}
		coll.hasExploration = true
		return 0
	}))

	// AttackDeck(10) — number of attack cards.
	L.SetGlobal("AttackDeck", L.NewFunction(func(L *lua.LState) int {
		coll.attackDeck = int(L.CheckNumber(1))
		coll.hasAttack = true
		return 0
	}))

	// Bag { LARVA = 2, ADULT = 1 }
	L.SetGlobal("Bag", L.NewFunction(func(L *lua.LState) int {
		coll.bag = L.CheckTable(1)
		return 0
	}))

	// Intruder("room", hp) — a pre-placed intruder.
	L.SetGlobal("Intruder", L.NewFunction(func(L *lua.LState) int {
		room := L.CheckString(1)
		hp := 1
		if L.GetTop() >= 2 {
			hp = int(L.CheckNumber(2))
		}
		coll.intruders = append(coll.intruders, rawIntruder{room: room, hp: hp})
		return 0
	}))
}
