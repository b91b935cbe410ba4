package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/0xtyls/n-r-ai/cli"
	"github.com/0xtyls/n-r-ai/engine/save"
	"github.com/0xtyls/n-r-ai/parser"
	"github.com/0xtyls/n-r-ai/sim"
	"github.com/0xtyls/n-r-ai/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text    string
	kind    lineKind
	isInput bool // true for echoed player input
}

// Model is the Bubble Tea model for the game TUI.
type Model struct {
	env *sim.Environment

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	quitting bool
	saveDir  string
}

// gameOutputMsg carries output lines into the Update loop.
type gameOutputMsg struct {
	input    string // echoed player input (empty for intro)
	lines    []string
	isSystem bool // true for meta-command output
}

// New creates a TUI model over an environment that has already been Reset.
func New(env *sim.Environment) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 64
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	return Model{
		env:     env,
		input:   ti,
		history: NewHistory(100),
		saveDir: filepath.Join(home, ".nrai", "saves"),
	}
}

// Run resets the environment with the seed and starts the Bubble Tea
// program.
func Run(env *sim.Environment, seed int64) error {
	if _, err := env.Reset(seed); err != nil {
		return err
	}
	m := New(env)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the opening situation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		lines := []string{"You wake alone on a silent ship. Something else is awake too.", ""}
		lines = append(lines, m.situation()...)
		return gameOutputMsg{lines: lines}
	}
}

// situation renders the current status block plus the indexed action list.
func (m Model) situation() []string {
	s := m.env.State
	lines := []string{
		fmt.Sprintf("Round %d · %s · room %s", s.Round, s.Phase, s.PlayerRoom),
	}
	if s.WeaponJammed {
		lines = append(lines, "Your weapon is jammed.")
	}
	if n := s.Intruders[s.PlayerRoom]; n > 0 {
		lines = append(lines, fmt.Sprintf("An intruder is here (%d hp).", n))
	}
	if s.Fires[s.PlayerRoom] {
		lines = append(lines, "The room is on fire.")
	}
	if s.SelfDestructArmed {
		lines = append(lines, fmt.Sprintf("Self-destruct armed: %d rounds left.", s.DestructTimer))
	}

	if m.env.Done {
		if s.Win {
			lines = append(lines, "You reach the escape pod and launch. You made it out.")
		} else {
			lines = append(lines, fmt.Sprintf("The ship claims another victim (%s).", cli.LossReason(s)))
		}
		return lines
	}

	for i, a := range m.env.Engine.LegalActions(s) {
		lines = append(lines, fmt.Sprintf("  %d) %s", i, cli.Describe(a)))
	}
	return lines
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.env.Done {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"The game is over. /quit to leave."}, isSystem: true,
		})
		return m, nil
	}

	actions := m.env.Engine.LegalActions(m.env.State)
	var chosen types.Action
	if pick, err := strconv.Atoi(input); err == nil {
		if pick < 0 || pick >= len(actions) {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{fmt.Sprintf("Pick out of range: choose 0-%d.", len(actions)-1)}, isSystem: true,
			})
			return m, nil
		}
		chosen = actions[pick]
	} else {
		a, err := parser.Match(parser.Parse(input), actions)
		if err != nil {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Enter an action number, a command like \"move b\", or /help."}, isSystem: true,
			})
			return m, nil
		}
		chosen = a
	}

	if _, _, _, err := m.env.Step(chosen); err != nil {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{fmt.Sprintf("Action failed: %v", err)}, isSystem: true,
		})
		return m, nil
	}
	if _, err := m.env.Run(); err != nil {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{fmt.Sprintf("Phase resolution failed: %v", err)}, isSystem: true,
		})
		return m, nil
	}

	lines := append([]string{"You " + cli.Describe(chosen) + ".", ""}, m.situation()...)
	m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
	return m, nil
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line}
		if msg.isSystem {
			rl.kind = kindSystem
		} else {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.kind == kindSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/key":
		key, err := save.StateKey(m.env.State)
		if err != nil {
			return []string{fmt.Sprintf("Key failed: %v", err)}, false
		}
		return []string{"State key: " + key}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Encode(m.env.State)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	s, err := save.Decode(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	m.env.State = s
	m.env.Done = s.GameOver

	output := []string{fmt.Sprintf("Game loaded from %s (round %d).", name, s.Round)}
	output = append(output, m.situation()...)
	return output
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /key          — Print the canonical state key",
		"",
		"Play:",
		"  Type the number of the action you want to take,",
		"  or a command like \"move b\", \"open c\", \"shoot\", \"end turn\".",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
