package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/0xtyls/n-r-ai/ai"
	"github.com/0xtyls/n-r-ai/engine/save"
	"github.com/0xtyls/n-r-ai/sim"
	"github.com/0xtyls/n-r-ai/storage"
)

// SelfplayOptions configures an unattended batch of games.
type SelfplayOptions struct {
	Games    int
	Seed     int64
	Agent    string // "random", "mcts" or "llm"
	Scenario string
	Iters    int    // search iterations per move for mcts
	Persona  string // persona YAML path for llm
	MaxTurns int
	Store    *storage.Store // optional; nil disables recording
	Out      io.Writer
}

// Selfplay runs opts.Games games with the chosen agent, printing one result
// line per game and recording matches when a store is configured.
func Selfplay(ctx context.Context, env *sim.Environment, opts SelfplayOptions) error {
	if opts.Games <= 0 {
		opts.Games = 1
	}
	if opts.Iters <= 0 {
		opts.Iters = 200
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 2000
	}

	wins := 0
	for g := 0; g < opts.Games; g++ {
		seed := opts.Seed + int64(g)
		if _, err := env.Reset(seed); err != nil {
			return fmt.Errorf("selfplay game %d: %w", g, err)
		}
		if _, err := env.Run(); err != nil {
			return fmt.Errorf("selfplay game %d: %w", g, err)
		}

		agent, err := newAgent(ctx, opts, env, seed)
		if err != nil {
			return err
		}
		if err := playGame(ctx, env, agent, opts.MaxTurns); err != nil {
			return fmt.Errorf("selfplay game %d: %w", g, err)
		}

		s := env.State
		if s.Win {
			wins++
		}
		reason := "escape"
		if !s.Win {
			reason = LossReason(s)
			if !s.GameOver {
				reason = "turn limit"
			}
		}
		fmt.Fprintf(opts.Out, "game %d seed %d: %s after %d rounds (%d turns)\n",
			g, seed, reason, s.Round, s.Turn)

		if opts.Store != nil {
			key, err := save.StateKey(s)
			if err != nil {
				return fmt.Errorf("selfplay game %d: state key: %w", g, err)
			}
			_, err = opts.Store.SaveMatch(ctx, storage.Match{
				Seed:      seed,
				Agent:     opts.Agent,
				Scenario:  opts.Scenario,
				Rounds:    s.Round,
				Turns:     s.Turn,
				Win:       s.Win,
				Reason:    reason,
				StateKey:  key,
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				return fmt.Errorf("selfplay game %d: record: %w", g, err)
			}
		}
	}

	fmt.Fprintf(opts.Out, "won %d/%d\n", wins, opts.Games)
	return nil
}

// playGame drives one game to its end or the turn cap.
func playGame(ctx context.Context, env *sim.Environment, agent ai.Agent, maxTurns int) error {
	if c, ok := agent.(io.Closer); ok {
		defer c.Close()
	}
	for turns := 0; !env.Done && turns < maxTurns; turns++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		action, err := agent.Act(ctx, env.State)
		if err != nil {
			return err
		}
		if _, _, _, err := env.Step(action); err != nil {
			return err
		}
		if _, err := env.Run(); err != nil {
			return err
		}
	}
	return nil
}

func newAgent(ctx context.Context, opts SelfplayOptions, env *sim.Environment, seed int64) (ai.Agent, error) {
	switch opts.Agent {
	case "", "random":
		return ai.NewRandomAgent(env.Engine, seed), nil
	case "mcts":
		return ai.NewMCTS(env.Engine, opts.Iters, seed), nil
	case "llm":
		var persona ai.Persona
		if opts.Persona != "" {
			p, err := ai.LoadPersona(opts.Persona)
			if err != nil {
				return nil, err
			}
			persona = p
		}
		return ai.NewLLMAgent(ctx, env.Engine, persona)
	default:
		return nil, fmt.Errorf("unknown agent %q (want random, mcts or llm)", opts.Agent)
	}
}
