// Package types defines the shared data structures for the n-r-ai engine.
// This package contains only type definitions and trivial constants — no
// rules logic.
package types

// RoomID identifies a room on the board.
type RoomID string

// Edge is an undirected corridor between two rooms. Edges are stored
// normalized (A < B lexically) so they can be compared and used as map keys;
// use board.NormEdge to build one.
type Edge struct {
	A RoomID `json:"a"`
	B RoomID `json:"b"`
}

// RoomType tags a room with its special effect, if any.
type RoomType string

const (
	RoomPlain       RoomType = "PLAIN"
	RoomControl     RoomType = "CONTROL"
	RoomArmory      RoomType = "ARMORY"
	RoomSurgery     RoomType = "SURGERY"
	RoomEngine      RoomType = "ENGINE"
	RoomFireControl RoomType = "FIRE_CONTROL"
)

// SectionID identifies a life-support section of the ship.
type SectionID string

// Phase is the current stage of a round's resolution cycle.
type Phase string

const (
	PhasePlayer  Phase = "PLAYER"
	PhaseEnemy   Phase = "ENEMY"
	PhaseEvent   Phase = "EVENT"
	PhaseCleanup Phase = "CLEANUP"
)

// ActionKind is the closed set of action tags.
type ActionKind string

const (
	ActionMove           ActionKind = "MOVE"
	ActionMoveCautious   ActionKind = "MOVE_CAUTIOUS"
	ActionOpenDoor       ActionKind = "OPEN_DOOR"
	ActionCloseDoor      ActionKind = "CLOSE_DOOR"
	ActionShoot          ActionKind = "SHOOT"
	ActionMelee          ActionKind = "MELEE"
	ActionBurst          ActionKind = "BURST"
	ActionUseRoom        ActionKind = "USE_ROOM"
	ActionEscape         ActionKind = "ESCAPE"
	ActionPass           ActionKind = "PASS"
	ActionEndPlayerPhase ActionKind = "END_PLAYER_PHASE"
	ActionNextPhase      ActionKind = "NEXT_PHASE"
)

// Action is a kind tag plus its parameters. The parameter shape is fixed per
// kind: To for MOVE/MOVE_CAUTIOUS/OPEN_DOOR/CLOSE_DOOR, NoiseEdge for
// MOVE_CAUTIOUS, Target for BURST. Unused fields stay at their zero value,
// which keeps Action comparable with ==.
type Action struct {
	Kind      ActionKind `json:"kind"`
	To        RoomID     `json:"to,omitempty"`
	NoiseEdge Edge       `json:"noise_edge,omitempty"`
	Target    Edge       `json:"target,omitempty"`
}

// EventCardKind tags an event card's effect.
type EventCardKind string

const (
	EventNoiseRoom    EventCardKind = "NOISE_ROOM"
	EventNoiseCorr    EventCardKind = "NOISE_CORRIDOR"
	EventBagDev       EventCardKind = "BAG_DEV"
	EventSpawnFromBag EventCardKind = "SPAWN_FROM_BAG"
	EventOxygenLeak   EventCardKind = "OXYGEN_LEAK"
	EventFireRoom     EventCardKind = "FIRE_ROOM"
)

// EventCard is one card of the event deck. Token is only meaningful for
// BAG_DEV cards (the token kind seeded into the bag).
type EventCard struct {
	Kind  EventCardKind `json:"kind"`
	Token TokenKind     `json:"token,omitempty"`
}

// ExplorationCard is drawn when entering an undiscovered room.
type ExplorationCard string

const (
	EntranceNoiseRoom  ExplorationCard = "ENTRANCE_NOISE_ROOM"
	EntranceCloseDoors ExplorationCard = "ENTRANCE_CLOSE_DOORS"
	EntranceNoiseCorr  ExplorationCard = "ENTRANCE_NOISE_CORRIDOR"
)

// TokenKind is an intruder token in the bag.
type TokenKind string

const (
	TokenLarva   TokenKind = "LARVA"
	TokenCreeper TokenKind = "CREEPER"
	TokenAdult   TokenKind = "ADULT"
	TokenBreeder TokenKind = "BREEDER"
	TokenQueen   TokenKind = "QUEEN"
)

// GameState is the complete game snapshot. It is treated as an immutable
// value: the engine never mutates a state it was given, it clones and
// returns a new one. Callers may hold any number of states concurrently.
//
// Maps keyed by Edge are not JSON-friendly; the save package owns the
// external encoding of the whole state.
type GameState struct {
	// bookkeeping
	Turn          int   `json:"turn"`
	Round         int   `json:"round"`
	Phase         Phase `json:"phase"`
	Seed          int64 `json:"seed"`
	ActionsInTurn int   `json:"actions_in_turn"`

	// character
	PlayerRoom    RoomID `json:"player_room"`
	Health        int    `json:"health"`
	HealthMax     int    `json:"health_max"`
	Oxygen        int    `json:"oxygen"`
	Ammo          int    `json:"ammo"`
	AmmoMax       int    `json:"ammo_max"`
	WeaponJammed  bool   `json:"weapon_jammed"`
	SeriousWounds int    `json:"serious_wounds"`

	// ship systems & hazards
	LifeSupport map[SectionID]bool `json:"life_support"`
	Fires       map[RoomID]bool    `json:"fires"`
	Noise       map[Edge]int       `json:"-"`
	RoomNoise   map[RoomID]int     `json:"room_noise"`
	Doors       map[Edge]bool      `json:"-"`

	// intruders & exploration
	Intruders    map[RoomID]int  `json:"intruders"`
	Discovered   map[RoomID]bool `json:"discovered"`
	SecureTokens map[Edge]bool   `json:"-"`

	// decks & bag
	EventDeck       []EventCard       `json:"event_deck"`
	ExplorationDeck []ExplorationCard `json:"exploration_deck"`
	AttackDeck      int               `json:"attack_deck"`
	Bag             map[TokenKind]int `json:"bag"`
	BagDevCount     int               `json:"bag_dev_count"`

	// endgame
	SelfDestructArmed bool `json:"self_destruct_armed"`
	DestructTimer     int  `json:"destruct_timer"`
	GameOver          bool `json:"game_over"`
	Win               bool `json:"win"`
}
