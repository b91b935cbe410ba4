package engine

import (
	"github.com/0xtyls/n-r-ai/types"
)

// applyUseRoom dispatches the special effect of the current room. Legality
// guarantees the room has one (RoomPlain never reaches here).
func applyUseRoom(e *Engine, s *types.GameState, _ types.Action) {
	switch e.Board.RoomType(s.PlayerRoom) {
	case types.RoomFireControl:
		// Extinguishes the local fire; the action is consumed even when
		// there is nothing to put out.
		delete(s.Fires, s.PlayerRoom)
	case types.RoomControl:
		sec := e.Board.Section(s.PlayerRoom)
		s.LifeSupport[sec] = !s.LifeSupport[sec]
	case types.RoomArmory:
		s.Ammo = s.AmmoMax
		s.WeaponJammed = false
	case types.RoomSurgery:
		if s.Health < s.HealthMax {
			s.Health++
		}
		if s.SeriousWounds > 0 {
			s.SeriousWounds--
		}
	case types.RoomEngine:
		s.SelfDestructArmed = true
		s.DestructTimer = e.Config.DestructCountdown
	}
	s.ActionsInTurn++
}

// applyEscape ends the game in a win immediately. Escape beats a pending
// self-destruct: the countdown is only checked at CLEANUP, after this.
func applyEscape(e *Engine, s *types.GameState, _ types.Action) {
	s.GameOver = true
	s.Win = true
}

// applyPass ends the marine's turn: end-of-turn fire damage, action counter
// reset. The phase does not change; END_PLAYER_PHASE does that.
func applyPass(e *Engine, s *types.GameState, _ types.Action) {
	if s.Fires[s.PlayerRoom] {
		damagePlayer(s, 1)
	}
	s.ActionsInTurn = 0
}
