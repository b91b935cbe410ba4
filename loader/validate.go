package loader

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/types"
)

// ValidationError collects all validation errors so authors see every
// problem in one run.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

var validRoomTypes = map[types.RoomType]bool{
	types.RoomPlain:       true,
	types.RoomControl:     true,
	types.RoomArmory:      true,
	types.RoomSurgery:     true,
	types.RoomEngine:      true,
	types.RoomFireControl: true,
}

var validEventKinds = map[types.EventCardKind]bool{
	types.EventNoiseRoom:    true,
	types.EventNoiseCorr:    true,
	types.EventBagDev:       true,
	types.EventSpawnFromBag: true,
	types.EventOxygenLeak:   true,
	types.EventFireRoom:     true,
}

var validExplorationKinds = map[types.ExplorationCard]bool{
	types.EntranceNoiseRoom:  true,
	types.EntranceCloseDoors: true,
	types.EntranceNoiseCorr:  true,
}

var validTokenKinds = map[types.TokenKind]bool{
	types.TokenLarva:   true,
	types.TokenCreeper: true,
	types.TokenAdult:   true,
	types.TokenBreeder: true,
	types.TokenQueen:   true,
}

// validate checks the raw collector for referential integrity before
// compilation touches it.
func validate(coll *collector) error {
	ve := &ValidationError{}

	if coll.game == nil {
		ve.addf("Game { ... } declaration is required")
	} else {
		if getString(coll.game, "title") == "" {
			ve.addf("Game.title is required")
		}
		if getString(coll.game, "start") == "" {
			ve.addf("Game.start is required")
		}
	}

	roomIDs := map[string]bool{}
	for _, r := range coll.rooms {
		if r.id == "" {
			ve.addf("room with empty id")
			continue
		}
		// Room ids become halves of "A-B" corridor keys in saves.
		if strings.Contains(r.id, "-") {
			ve.addf("room id %q must not contain '-'", r.id)
		}
		if roomIDs[r.id] {
			ve.addf("duplicate room id %q", r.id)
		}
		roomIDs[r.id] = true

		if t := getString(r.table, "type"); t != "" && !validRoomTypes[types.RoomType(t)] {
			ve.addf("room %q has unknown type %q", r.id, t)
		}
		if getString(r.table, "section") == "" {
			ve.addf("room %q is missing a section", r.id)
		}
	}
	if len(coll.rooms) == 0 {
		ve.addf("at least one room is required")
	}

	if coll.game != nil {
		if start := getString(coll.game, "start"); start != "" && !roomIDs[start] {
			ve.addf("start room %q not found in defined rooms", start)
		}
	}

	seenEdges := map[types.Edge]bool{}
	for _, c := range coll.corridors {
		if c.a == c.b {
			ve.addf("corridor %q-%q connects a room to itself", c.a, c.b)
			continue
		}
		for _, end := range []string{c.a, c.b} {
			if !roomIDs[end] {
				ve.addf("corridor %q-%q references undefined room %q", c.a, c.b, end)
			}
		}
		e := board.NormEdge(types.RoomID(c.a), types.RoomID(c.b))
		if seenEdges[e] {
			ve.addf("duplicate corridor %q-%q", c.a, c.b)
		}
		seenEdges[e] = true
	}

	if coll.events != nil {
		for i := 1; i <= coll.events.MaxN(); i++ {
			kind, token := eventEntry(coll.events, i)
			if kind == "" {
				continue // compile reports malformed entries
			}
			if !validEventKinds[types.EventCardKind(kind)] {
				ve.addf("event deck entry %d has unknown kind %q", i, kind)
			}
			if token != "" && !validTokenKinds[types.TokenKind(token)] {
				ve.addf("event deck entry %d has unknown token %q", i, token)
			}
		}
	}

	if coll.bag != nil {
		coll.bag.ForEach(func(k, v lua.LValue) {
			ks, ok := k.(lua.LString)
			if !ok {
				ve.addf("bag keys must be token kind strings")
				return
			}
			if !validTokenKinds[types.TokenKind(ks)] {
				ve.addf("bag has unknown token kind %q", string(ks))
			}
			if n, ok := v.(lua.LNumber); !ok || int(n) < 0 {
				ve.addf("bag count for %q must be a non-negative number", string(ks))
			}
		})
	}

	for _, in := range coll.intruders {
		if !roomIDs[in.room] {
			ve.addf("intruder placed in undefined room %q", in.room)
		}
		if in.hp < 1 {
			ve.addf("intruder in room %q must have at least 1 hp", in.room)
		}
	}

	if coll.hasAttack && coll.attackDeck < 0 {
		ve.addf("attack deck size must be non-negative")
	}
	if coll.explorationCards != nil {
		for i := 1; i <= coll.explorationCards.MaxN(); i++ {
			s, ok := coll.explorationCards.RawGetInt(i).(lua.LString)
			if !ok {
				ve.addf("exploration deck entry %d must be a card kind string", i)
				continue
			}
			if !validExplorationKinds[types.ExplorationCard(s)] {
				ve.addf("exploration deck entry %d has unknown kind %q", i, string(s))
			}
		}
	} else if coll.hasExploration && coll.explorationCount < 0 {
		ve.addf("exploration deck size must be non-negative")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// eventEntry extracts (kind, token) from deck entry i, returning "" for
// malformed entries.
func eventEntry(tbl *lua.LTable, i int) (string, string) {
	switch v := tbl.RawGetInt(i).(type) {
	case lua.LString:
		return string(v), ""
	case *lua.LTable:
		return getString(v, "kind"), getString(v, "token")
	default:
		return "", ""
	}
}
