package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing
// location, phase, vitals, and the round counter.
func (m Model) renderStatusBar() string {
	s := m.env.State

	left := fmt.Sprintf(" %s | %s", s.PlayerRoom, s.Phase)
	if s.WeaponJammed {
		left += " | JAMMED"
	}
	if s.SelfDestructArmed {
		left += fmt.Sprintf(" | DESTRUCT %d", s.DestructTimer)
	}

	right := fmt.Sprintf("HP %d/%d  O2 %d  Ammo %d/%d  R:%d ",
		s.Health, s.HealthMax, s.Oxygen, s.Ammo, s.AmmoMax, s.Round)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
