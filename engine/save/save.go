// Package save implements the external snapshot schema: a JSON encoding of
// GameState that round-trips exactly, plus a sha256 state key over the
// canonical encoding for transposition tables and replay comparison.
package save

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/0xtyls/n-r-ai/types"
)

// Snapshot is the wire form of a GameState. Edge-keyed maps are flattened
// to "A-B" string keys so the encoding is plain JSON; room ids therefore
// must not contain '-', which the scenario loader enforces.
type Snapshot struct {
	Turn          int         `json:"turn"`
	Round         int         `json:"round"`
	Phase         types.Phase `json:"phase"`
	Seed          int64       `json:"seed"`
	ActionsInTurn int         `json:"actions_in_turn"`

	PlayerRoom    types.RoomID `json:"player_room"`
	Health        int          `json:"health"`
	HealthMax     int          `json:"health_max"`
	Oxygen        int          `json:"oxygen"`
	Ammo          int          `json:"ammo"`
	AmmoMax       int          `json:"ammo_max"`
	WeaponJammed  bool         `json:"weapon_jammed"`
	SeriousWounds int          `json:"serious_wounds"`

	LifeSupport map[types.SectionID]bool `json:"life_support"`
	Fires       []types.RoomID           `json:"fires"`
	Noise       map[string]int           `json:"noise"`
	RoomNoise   map[types.RoomID]int     `json:"room_noise"`
	Doors       []string                 `json:"doors"`

	Intruders    map[types.RoomID]int `json:"intruders"`
	Discovered   []types.RoomID       `json:"discovered"`
	SecureTokens []string             `json:"secure_tokens"`

	EventDeck       []types.EventCard       `json:"event_deck"`
	ExplorationDeck []types.ExplorationCard `json:"exploration_deck"`
	AttackDeck      int                     `json:"attack_deck"`
	Bag             map[types.TokenKind]int `json:"bag"`
	BagDevCount     int                     `json:"bag_dev_count"`

	SelfDestructArmed bool `json:"self_destruct_armed"`
	DestructTimer     int  `json:"destruct_timer"`
	GameOver          bool `json:"game_over"`
	Win               bool `json:"win"`
}

// EdgeKey flattens an edge to its snapshot key.
func EdgeKey(e types.Edge) string {
	return string(e.A) + "-" + string(e.B)
}

// ParseEdgeKey reverses EdgeKey.
func ParseEdgeKey(key string) (types.Edge, error) {
	a, b, ok := strings.Cut(key, "-")
	if !ok || a == "" || b == "" {
		return types.Edge{}, fmt.Errorf("save: malformed edge key %q", key)
	}
	return types.Edge{A: types.RoomID(a), B: types.RoomID(b)}, nil
}

// FromState projects a GameState onto the snapshot schema. Slices are
// sorted so the encoding is canonical.
func FromState(s *types.GameState) *Snapshot {
	snap := &Snapshot{
		Turn:          s.Turn,
		Round:         s.Round,
		Phase:         s.Phase,
		Seed:          s.Seed,
		ActionsInTurn: s.ActionsInTurn,

		PlayerRoom:    s.PlayerRoom,
		Health:        s.Health,
		HealthMax:     s.HealthMax,
		Oxygen:        s.Oxygen,
		Ammo:          s.Ammo,
		AmmoMax:       s.AmmoMax,
		WeaponJammed:  s.WeaponJammed,
		SeriousWounds: s.SeriousWounds,

		LifeSupport: cloneMap(s.LifeSupport),
		Fires:       sortedKeys(s.Fires),
		Noise:       map[string]int{},
		RoomNoise:   cloneMap(s.RoomNoise),
		Doors:       edgeKeys(s.Doors),

		Intruders:    cloneMap(s.Intruders),
		Discovered:   sortedKeys(s.Discovered),
		SecureTokens: edgeKeys(s.SecureTokens),

		EventDeck:       append([]types.EventCard{}, s.EventDeck...),
		ExplorationDeck: append([]types.ExplorationCard{}, s.ExplorationDeck...),
		AttackDeck:      s.AttackDeck,
		Bag:             cloneMap(s.Bag),
		BagDevCount:     s.BagDevCount,

		SelfDestructArmed: s.SelfDestructArmed,
		DestructTimer:     s.DestructTimer,
		GameOver:          s.GameOver,
		Win:               s.Win,
	}
	for e, n := range s.Noise {
		snap.Noise[EdgeKey(e)] = n
	}
	return snap
}

// ToState rebuilds a GameState from a snapshot.
func ToState(snap *Snapshot) (*types.GameState, error) {
	noise := make(map[types.Edge]int, len(snap.Noise))
	for k, n := range snap.Noise {
		e, err := ParseEdgeKey(k)
		if err != nil {
			return nil, err
		}
		noise[e] = n
	}
	doors, err := parseEdgeSet(snap.Doors)
	if err != nil {
		return nil, err
	}
	secure, err := parseEdgeSet(snap.SecureTokens)
	if err != nil {
		return nil, err
	}

	s := &types.GameState{
		Turn:          snap.Turn,
		Round:         snap.Round,
		Phase:         snap.Phase,
		Seed:          snap.Seed,
		ActionsInTurn: snap.ActionsInTurn,

		PlayerRoom:    snap.PlayerRoom,
		Health:        snap.Health,
		HealthMax:     snap.HealthMax,
		Oxygen:        snap.Oxygen,
		Ammo:          snap.Ammo,
		AmmoMax:       snap.AmmoMax,
		WeaponJammed:  snap.WeaponJammed,
		SeriousWounds: snap.SeriousWounds,

		LifeSupport: cloneMap(snap.LifeSupport),
		Fires:       toSet(snap.Fires),
		Noise:       noise,
		RoomNoise:   cloneMap(snap.RoomNoise),
		Doors:       doors,

		Intruders:    cloneMap(snap.Intruders),
		Discovered:   toSet(snap.Discovered),
		SecureTokens: secure,

		EventDeck:       append([]types.EventCard{}, snap.EventDeck...),
		ExplorationDeck: append([]types.ExplorationCard{}, snap.ExplorationDeck...),
		AttackDeck:      snap.AttackDeck,
		Bag:             cloneMap(snap.Bag),
		BagDevCount:     snap.BagDevCount,

		SelfDestructArmed: snap.SelfDestructArmed,
		DestructTimer:     snap.DestructTimer,
		GameOver:          snap.GameOver,
		Win:               snap.Win,
	}
	if s.LifeSupport == nil {
		s.LifeSupport = map[types.SectionID]bool{}
	}
	if s.RoomNoise == nil {
		s.RoomNoise = map[types.RoomID]int{}
	}
	if s.Intruders == nil {
		s.Intruders = map[types.RoomID]int{}
	}
	if s.Bag == nil {
		s.Bag = map[types.TokenKind]int{}
	}
	return s, nil
}

// Encode serializes a state to its canonical JSON snapshot form. Object
// keys and flattened sets are sorted, so equal states produce identical
// bytes.
func Encode(s *types.GameState) ([]byte, error) {
	return json.Marshal(FromState(s))
}

// Decode parses snapshot JSON back into a state.
func Decode(data []byte) (*types.GameState, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("save: decode snapshot: %w", err)
	}
	return ToState(&snap)
}

// StateKey returns the sha256 hex fingerprint of the canonical encoding.
func StateKey(s *types.GameState) (string, error) {
	data, err := Encode(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeys[K ~string](m map[K]bool) []K {
	out := make([]K, 0, len(m))
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	sortStrings(out)
	return out
}

func edgeKeys(m map[types.Edge]bool) []string {
	out := make([]string, 0, len(m))
	for e, v := range m {
		if v {
			out = append(out, EdgeKey(e))
		}
	}
	sortStrings(out)
	return out
}

func parseEdgeSet(keys []string) (map[types.Edge]bool, error) {
	out := make(map[types.Edge]bool, len(keys))
	for _, k := range keys {
		e, err := ParseEdgeKey(k)
		if err != nil {
			return nil, err
		}
		out[e] = true
	}
	return out, nil
}

func toSet[K ~string](keys []K) map[K]bool {
	out := make(map[K]bool, len(keys))
	for _, k := range keys {
		out[k] = true
	}
	return out
}

func sortStrings[S ~string](s []S) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
