// nrai is a deterministic rules engine for a cooperative survival board
// game, playable in the terminal, over HTTP, or by unattended agents.
//
// Usage:
//
//	nrai [--version] [--plain] [--seed N] [--scenario <dir>] [--script <file>]
//	nrai --serve
//	nrai --selfplay N [--agent random|mcts|llm] [--persona <file>] [--db <file>]
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/0xtyls/n-r-ai/cli"
	"github.com/0xtyls/n-r-ai/engine"
	"github.com/0xtyls/n-r-ai/engine/board"
	"github.com/0xtyls/n-r-ai/engine/state"
	"github.com/0xtyls/n-r-ai/loader"
	"github.com/0xtyls/n-r-ai/server"
	"github.com/0xtyls/n-r-ai/sim"
	"github.com/0xtyls/n-r-ai/storage"
	"github.com/0xtyls/n-r-ai/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	plain       bool
	serve       bool
	selfplay    int
	seed        int64
	scenarioDir string
	scriptFile  string
	agent       string
	iters       int
	persona     string
	dbPath      string
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if opts == nil {
		return // --version
	}

	env, scenarioName, err := buildEnvironment(opts.scenarioDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}

	switch {
	case opts.serve:
		runServe(env, opts)

	case opts.selfplay > 0:
		runSelfplay(env, scenarioName, opts)

	case opts.scriptFile != "":
		f, err := os.Open(opts.scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(env)
		c.In = f
		c.EchoInput = true
		if err := c.Run(opts.seed); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case opts.plain || !isTerminal():
		if err := cli.New(env).Run(opts.seed); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		if err := tui.Run(env, opts.seed); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func parseArgs(args []string) (*options, error) {
	opts := &options{seed: 1, iters: 200}

	needsValue := func(i int, flag string) error {
		if i+1 >= len(args) {
			return fmt.Errorf("%s requires a value", flag)
		}
		return nil
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("nrai %s (commit %s, built %s)\n", version, commit, date)
			return nil, nil
		case "--plain":
			opts.plain = true
		case "--serve":
			opts.serve = true
		case "--selfplay":
			if err := needsValue(i, "--selfplay"); err != nil {
				return nil, err
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("--selfplay requires a positive game count")
			}
			opts.selfplay = n
		case "--seed":
			if err := needsValue(i, "--seed"); err != nil {
				return nil, err
			}
			i++
			seed, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("--seed requires an integer")
			}
			opts.seed = seed
		case "--scenario":
			if err := needsValue(i, "--scenario"); err != nil {
				return nil, err
			}
			i++
			opts.scenarioDir = args[i]
		case "--script":
			if err := needsValue(i, "--script"); err != nil {
				return nil, err
			}
			i++
			opts.scriptFile = args[i]
		case "--agent":
			if err := needsValue(i, "--agent"); err != nil {
				return nil, err
			}
			i++
			opts.agent = args[i]
		case "--iters":
			if err := needsValue(i, "--iters"); err != nil {
				return nil, err
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("--iters requires a positive integer")
			}
			opts.iters = n
		case "--persona":
			if err := needsValue(i, "--persona"); err != nil {
				return nil, err
			}
			i++
			opts.persona = args[i]
		case "--db":
			if err := needsValue(i, "--db"); err != nil {
				return nil, err
			}
			i++
			opts.dbPath = args[i]
		default:
			return nil, fmt.Errorf("unknown flag %s", args[i])
		}
	}
	return opts, nil
}

// buildEnvironment loads a Lua scenario when a directory is given, falling
// back to the built-in five-room ship.
func buildEnvironment(scenarioDir string) (*sim.Environment, string, error) {
	if scenarioDir == "" {
		return sim.New(engine.New(board.Default()), state.DefaultSetup()), "default", nil
	}
	sc, err := loader.Load(scenarioDir)
	if err != nil {
		return nil, "", err
	}
	return sim.New(engine.New(sc.Board), sc.Setup), sc.Title, nil
}

func runServe(env *sim.Environment, opts *options) {
	cfg, err := server.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.ScenarioDir != "" && opts.scenarioDir == "" {
		rebuilt, _, err := buildEnvironment(cfg.ScenarioDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
			os.Exit(1)
		}
		env = rebuilt
	}
	if _, err := env.Reset(cfg.Seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := server.New(env)
	fmt.Printf("nrai listening on %s\n", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSelfplay(env *sim.Environment, scenarioName string, opts *options) {
	var store *storage.Store
	if opts.dbPath != "" {
		var err error
		store, err = storage.Open(opts.dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening match store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	err := cli.Selfplay(context.Background(), env, cli.SelfplayOptions{
		Games:    opts.selfplay,
		Seed:     opts.seed,
		Agent:    opts.agent,
		Scenario: scenarioName,
		Iters:    opts.iters,
		Persona:  opts.persona,
		Store:    store,
		Out:      os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
