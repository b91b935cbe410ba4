// Package cli provides terminal I/O, action formatting, and meta-command
// dispatch for plain-mode play.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/0xtyls/n-r-ai/engine/save"
	"github.com/0xtyls/n-r-ai/parser"
	"github.com/0xtyls/n-r-ai/sim"
	"github.com/0xtyls/n-r-ai/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Env       *sim.Environment
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI wired to the given environment.
func New(env *sim.Environment) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Env:     env,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".nrai", "saves"),
	}
}

// Run starts the game loop: print status and the indexed action list, read
// a pick, apply it, auto-advance through the automatic phases, repeat.
func (c *CLI) Run(seed int64) error {
	if _, err := c.Env.Reset(seed); err != nil {
		return err
	}
	c.printStatus()
	c.printActions()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return nil
			}
			continue
		}

		actions := c.Env.Engine.LegalActions(c.Env.State)
		var act types.Action
		if pick, err := strconv.Atoi(input); err == nil {
			if pick < 0 || pick >= len(actions) {
				c.printSystem(fmt.Sprintf("Pick out of range: choose 0-%d.", len(actions)-1))
				continue
			}
			act = actions[pick]
		} else {
			a, err := parser.Match(parser.Parse(input), actions)
			if err != nil {
				c.printSystem("I don't understand. Enter an action number, a command like \"move b\", or /help.")
				continue
			}
			act = a
		}

		if _, _, _, err := c.Env.Step(act); err != nil {
			c.printSystem(fmt.Sprintf("Action failed: %v", err))
			continue
		}
		if _, err := c.Env.Run(); err != nil {
			c.printSystem(fmt.Sprintf("Phase resolution failed: %v", err))
		}

		c.printStatus()
		if c.Env.Done {
			if c.Env.State.Win {
				c.printLine("You reach the escape pod and launch. You made it out.")
			} else {
				c.printLine(fmt.Sprintf("The ship claims another victim (%s).", LossReason(c.Env.State)))
			}
			return nil
		}
		c.printActions()
	}
	return scanner.Err()
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/key":
		key, err := save.StateKey(c.Env.State)
		if err != nil {
			c.printSystem(fmt.Sprintf("Key failed: %v", err))
			return false
		}
		c.printSystem("State key: " + key)

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Encode(c.Env.State)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	s, err := save.Decode(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Env.State = s
	c.Env.Done = s.GameOver
	c.printSystem(fmt.Sprintf("Game loaded from %s (round %d).", name, s.Round))
	c.printStatus()
	c.printActions()
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Dump current state",
		"  /key          — Print the canonical state key",
		"",
		"Play:",
		"  Type the number of the action you want to take,",
		"  or a command like \"move b\", \"open c\", \"shoot\", \"end turn\".",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	data, err := save.Encode(c.Env.State)
	if err != nil {
		c.printSystem(fmt.Sprintf("State dump failed: %v", err))
		return
	}
	c.printLine(string(data))
}

func (c *CLI) printStatus() {
	s := c.Env.State
	c.printLine(fmt.Sprintf("Round %d · %s · room %s", s.Round, s.Phase, s.PlayerRoom))
	c.printLine(fmt.Sprintf("HP %d/%d  O2 %d  ammo %d/%d  wounds %d",
		s.Health, s.HealthMax, s.Oxygen, s.Ammo, s.AmmoMax, s.SeriousWounds))
	if s.WeaponJammed {
		c.printLine("Your weapon is jammed.")
	}
	if n := s.Intruders[s.PlayerRoom]; n > 0 {
		c.printLine(fmt.Sprintf("An intruder is here (%d hp).", n))
	}
	if s.Fires[s.PlayerRoom] {
		c.printLine("The room is on fire.")
	}
	if s.SelfDestructArmed {
		c.printLine(fmt.Sprintf("Self-destruct armed: %d rounds left.", s.DestructTimer))
	}
}

func (c *CLI) printActions() {
	actions := c.Env.Engine.LegalActions(c.Env.State)
	for i, a := range actions {
		c.printLine(fmt.Sprintf("  %d) %s", i, Describe(a)))
	}
}

// Describe renders an action as a short human-readable line.
func Describe(a types.Action) string {
	switch a.Kind {
	case types.ActionMove:
		return fmt.Sprintf("move to %s", a.To)
	case types.ActionMoveCautious:
		return fmt.Sprintf("move carefully to %s (noise at %s-%s)", a.To, a.NoiseEdge.A, a.NoiseEdge.B)
	case types.ActionOpenDoor:
		return fmt.Sprintf("open the door to %s", a.To)
	case types.ActionCloseDoor:
		return fmt.Sprintf("close the door to %s", a.To)
	case types.ActionShoot:
		return "shoot the intruder here"
	case types.ActionMelee:
		return "attack the intruder in melee"
	case types.ActionBurst:
		return fmt.Sprintf("burst fire down corridor %s-%s", a.Target.A, a.Target.B)
	case types.ActionUseRoom:
		return "use this room"
	case types.ActionEscape:
		return "escape the ship"
	case types.ActionPass:
		return "pass"
	case types.ActionEndPlayerPhase:
		return "end your phase"
	case types.ActionNextPhase:
		return "continue"
	default:
		return string(a.Kind)
	}
}

// LossReason names why a lost game ended.
func LossReason(s *types.GameState) string {
	switch {
	case !s.GameOver || s.Win:
		return ""
	case s.Health <= 0:
		return "killed"
	case s.Oxygen <= 0:
		return "asphyxiated"
	case s.SelfDestructArmed && s.DestructTimer <= 0:
		return "self-destruct"
	default:
		return "lost"
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
