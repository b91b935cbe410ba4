// Package state constructs game states and enforces their invariants.
// States are plain values (types.GameState); the helpers here never mutate
// an existing state except through an explicit Clone.
package state

import (
	"fmt"

	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/types"
)

// Default resource values for a fresh marine.
const (
	DefaultHealth     = 5
	DefaultOxygen     = 5
	DefaultAmmo       = 3
	DefaultAmmoMax    = 6
	DefaultAttackDeck = 10
)

// Setup describes the initial placement compiled from a scenario.
type Setup struct {
	Start           types.RoomID
	Health          int
	Oxygen          int
	Ammo            int
	AmmoMax         int
	AttackDeck      int
	EventDeck       []types.EventCard
	ExplorationDeck []types.ExplorationCard
	Bag             map[types.TokenKind]int
	Doors           []types.Edge
	Intruders       map[types.RoomID]int
}

// DefaultSetup returns the setup used by the scratch scenario: the marine
// starts in room A with default resources and an empty event deck.
func DefaultSetup() Setup {
	return Setup{
		Start:      "A",
		Health:     DefaultHealth,
		Oxygen:     DefaultOxygen,
		Ammo:       DefaultAmmo,
		AmmoMax:    DefaultAmmoMax,
		AttackDeck: DefaultAttackDeck,
	}
}

// New builds the initial game state for a board. All identifier references
// in the setup are checked against the board so a bad scenario fails here,
// not mid-game.
func New(b *board.Board, su Setup, seed int64) (*types.GameState, error) {
	if !b.HasRoom(su.Start) {
		return nil, fmt.Errorf("state: start room %q not on board", su.Start)
	}
	for _, d := range su.Doors {
		if !b.HasEdge(d.A, d.B) {
			return nil, fmt.Errorf("state: door on unknown corridor %q-%q", d.A, d.B)
		}
	}
	for r := range su.Intruders {
		if !b.HasRoom(r) {
			return nil, fmt.Errorf("state: intruder in unknown room %q", r)
		}
	}
	if su.Ammo > su.AmmoMax {
		return nil, fmt.Errorf("state: ammo %d exceeds ammo max %d", su.Ammo, su.AmmoMax)
	}

	life := make(map[types.SectionID]bool)
	for _, sec := range b.Sections() {
		life[sec] = true
	}
	doors := make(map[types.Edge]bool, len(su.Doors))
	for _, d := range su.Doors {
		doors[board.NormEdge(d.A, d.B)] = true
	}
	intruders := make(map[types.RoomID]int, len(su.Intruders))
	for r, hp := range su.Intruders {
		intruders[r] = hp
	}
	bag := make(map[types.TokenKind]int, len(su.Bag))
	for k, n := range su.Bag {
		bag[k] = n
	}

	s := &types.GameState{
		Round:           1,
		Phase:           types.PhasePlayer,
		Seed:            seed,
		PlayerRoom:      su.Start,
		Health:          su.Health,
		HealthMax:       su.Health,
		Oxygen:          su.Oxygen,
		Ammo:            su.Ammo,
		AmmoMax:         su.AmmoMax,
		WeaponJammed:    false,
		LifeSupport:     life,
		Fires:           map[types.RoomID]bool{},
		Noise:           map[types.Edge]int{},
		RoomNoise:       map[types.RoomID]int{},
		Doors:           doors,
		Intruders:       intruders,
		Discovered:      map[types.RoomID]bool{su.Start: true},
		SecureTokens:    map[types.Edge]bool{},
		EventDeck:       append([]types.EventCard(nil), su.EventDeck...),
		ExplorationDeck: append([]types.ExplorationCard(nil), su.ExplorationDeck...),
		AttackDeck:      su.AttackDeck,
		Bag:             bag,
	}
	return s, nil
}

// Clone returns a deep copy. This is what makes Apply pure: the engine
// clones, mutates the clone, and returns it.
func Clone(s *types.GameState) *types.GameState {
	c := *s
	c.LifeSupport = cloneMap(s.LifeSupport)
	c.Fires = cloneMap(s.Fires)
	c.Noise = cloneMap(s.Noise)
	c.RoomNoise = cloneMap(s.RoomNoise)
	c.Doors = cloneMap(s.Doors)
	c.Intruders = cloneMap(s.Intruders)
	c.Discovered = cloneMap(s.Discovered)
	c.SecureTokens = cloneMap(s.SecureTokens)
	c.Bag = cloneMap(s.Bag)
	c.EventDeck = append([]types.EventCard(nil), s.EventDeck...)
	c.ExplorationDeck = append([]types.ExplorationCard(nil), s.ExplorationDeck...)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Check verifies the boundary invariants that must hold after every
// transition. A failure here is a defect in the engine, not a game event.
func Check(s *types.GameState) error {
	if s.Ammo < 0 || s.Ammo > s.AmmoMax {
		return fmt.Errorf("ammo %d outside [0, %d]", s.Ammo, s.AmmoMax)
	}
	if s.Health < 0 {
		return fmt.Errorf("health %d below zero", s.Health)
	}
	if s.Oxygen < 0 {
		return fmt.Errorf("oxygen %d below zero", s.Oxygen)
	}
	for e, n := range s.Noise {
		if n < 0 {
			return fmt.Errorf("corridor %s-%s noise %d below zero", e.A, e.B, n)
		}
	}
	for r, n := range s.RoomNoise {
		if n < 0 {
			return fmt.Errorf("room %s noise %d below zero", r, n)
		}
	}
	for r, hp := range s.Intruders {
		if hp <= 0 {
			return fmt.Errorf("intruder in %s with hp %d", r, hp)
		}
	}
	if s.DestructTimer < 0 {
		return fmt.Errorf("destruct timer %d below zero", s.DestructTimer)
	}
	return nil
}

// DoorClosed reports whether the corridor between a and b is blocked.
func DoorClosed(s *types.GameState, a, b types.RoomID) bool {
	return s.Doors[board.NormEdge(a, b)]
}

// TokenHP maps a bag token kind to the hit points of the intruder it spawns.
// Weaker kinds die to a single accumulated hit, tougher ones need more.
func TokenHP(k types.TokenKind) int {
	switch k {
	case types.TokenAdult, types.TokenBreeder:
		return 2
	case types.TokenQueen:
		return 3
	default:
		return 1
	}
}
