package engine

import (
	"github.com/0xtyls/n-r-ai/types"
)

// Outcome classifies a single attack resolution.
type Outcome string

const (
	OutcomeMiss Outcome = "MISS"
	OutcomeHit  Outcome = "HIT"
	OutcomeCrit Outcome = "CRIT"
	OutcomeJam  Outcome = "JAM"
)

// ShotResult is the resolved effect of one trigger pull.
type ShotResult struct {
	Outcome    Outcome
	Damage     int
	LastBullet bool // the shot shows the last-bullet symbol and spends ammo
}

// Resolver turns the current attack-deck counter into a shot result. The
// default DeckResolver is a deterministic placeholder standing in for a
// true card-table resolution; a probabilistic implementation can replace it
// without touching the rest of the engine.
type Resolver interface {
	ResolveShot(attackDeck int) (ShotResult, int)
}

// DeckResolver resolves shots by fixed arithmetic on the attack-deck value:
// an empty deck always misses (and stays empty), a multiple of 13 jams, a
// multiple of 7 crits for 2, anything else hits for 1. The last-bullet
// symbol shows on multiples of 5. Every non-empty draw decrements the deck.
type DeckResolver struct{}

func (DeckResolver) ResolveShot(deck int) (ShotResult, int) {
	if deck == 0 {
		return ShotResult{Outcome: OutcomeMiss}, 0
	}
	res := ShotResult{LastBullet: deck%5 == 0}
	switch {
	case deck%13 == 0:
		res.Outcome = OutcomeJam
	case deck%7 == 0:
		res.Outcome = OutcomeCrit
		res.Damage = 2
	default:
		res.Outcome = OutcomeHit
		res.Damage = 1
	}
	return res, deck - 1
}

func applyShoot(e *Engine, s *types.GameState, _ types.Action) {
	res, deck := e.Resolver.ResolveShot(s.AttackDeck)
	s.AttackDeck = deck
	if res.LastBullet {
		s.Ammo--
	}
	if res.Outcome == OutcomeJam {
		s.WeaponJammed = true
	} else if res.Damage > 0 {
		damageIntruder(s, s.PlayerRoom, res.Damage)
	}
	s.ActionsInTurn++
}

func applyMelee(e *Engine, s *types.GameState, _ types.Action) {
	damageIntruder(s, s.PlayerRoom, 1)
	s.SeriousWounds++
	damagePlayer(s, 1)
	s.ActionsInTurn++
}

// applyBurst sprays a corridor: one ammo is spent up front regardless of
// outcome, and the outcome's hit budget is distributed across intruders at
// both ends of the targeted edge, near room first.
func applyBurst(e *Engine, s *types.GameState, a types.Action) {
	s.Ammo--
	res, deck := e.Resolver.ResolveShot(s.AttackDeck)
	s.AttackDeck = deck
	if res.Outcome == OutcomeJam {
		s.WeaponJammed = true
	}
	budget := res.Damage
	for _, r := range burstRooms(s.PlayerRoom, a.Target) {
		if budget == 0 {
			break
		}
		if hp, ok := s.Intruders[r]; ok {
			hits := budget
			if hits > hp {
				hits = hp
			}
			damageIntruder(s, r, hits)
			budget -= hits
		}
	}
	s.ActionsInTurn++
}

// burstRooms orders the endpoints of the targeted edge with the shooter's
// room first.
func burstRooms(from types.RoomID, target types.Edge) [2]types.RoomID {
	if target.A == from {
		return [2]types.RoomID{target.A, target.B}
	}
	return [2]types.RoomID{target.B, target.A}
}

// burstTargets enumerates the legal burst edges: open corridors incident to
// the current room with an intruder at either end.
func (e *Engine) burstTargets(s *types.GameState) []types.Edge {
	var out []types.Edge
	for _, edge := range e.Board.IncidentEdges(s.PlayerRoom) {
		if s.Doors[edge] {
			continue
		}
		if s.Intruders[edge.A] > 0 || s.Intruders[edge.B] > 0 {
			out = append(out, edge)
		}
	}
	return out
}

func damageIntruder(s *types.GameState, r types.RoomID, dmg int) {
	hp, ok := s.Intruders[r]
	if !ok {
		return
	}
	hp -= dmg
	if hp <= 0 {
		delete(s.Intruders, r)
	} else {
		s.Intruders[r] = hp
	}
}

// damagePlayer applies damage and evaluates the health loss condition
// immediately: health never goes below zero, and zero ends the game.
func damagePlayer(s *types.GameState, dmg int) {
	s.Health -= dmg
	if s.Health <= 0 {
		s.Health = 0
		s.GameOver = true
		s.Win = false
	}
}

// spawnIntruder places (or reinforces) an intruder in a room.
func spawnIntruder(s *types.GameState, r types.RoomID, hp int) {
	s.Intruders[r] += hp
}
