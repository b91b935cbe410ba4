package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeader = lipgloss.NewStyle().
			Bold(true)

	styleAction = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindText lineKind = iota
	kindHeader
	kindAction
	kindDanger
	kindSystem
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Round "):
		return kindHeader
	case strings.HasPrefix(strings.TrimSpace(line), "0)"),
		isActionItem(line):
		return kindAction
	case strings.HasPrefix(line, "An intruder"),
		strings.HasPrefix(line, "The room is on fire"),
		strings.HasPrefix(line, "Self-destruct"),
		strings.HasPrefix(line, "Your weapon is jammed"),
		strings.HasPrefix(line, "The ship claims"):
		return kindDanger
	default:
		return kindText
	}
}

// isActionItem matches the indexed action list lines ("  3) ...").
func isActionItem(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	return i > 0 && strings.HasPrefix(trimmed[i:], ") ")
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeader:
		return styleHeader.Render(line)
	case kindAction:
		return styleAction.Render(line)
	case kindDanger:
		return styleDanger.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	default:
		return styleText.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
