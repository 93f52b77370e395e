// Command skirmish-demo drives a small worldsim.World through a handful of
// ticks and prints each agent's decoded action, exercising the decision
// pipeline end to end outside of the test suite. Flags and subcommand
// structure are built on github.com/spf13/cobra rather than hand-rolling
// flag parsing.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kestrel-sim/skirmish/agentstate"
	"github.com/kestrel-sim/skirmish/config"
	"github.com/kestrel-sim/skirmish/controller"
	"github.com/kestrel-sim/skirmish/core"
	"github.com/kestrel-sim/skirmish/option"
	"github.com/kestrel-sim/skirmish/role"
	"github.com/kestrel-sim/skirmish/worldapi"
	"github.com/kestrel-sim/skirmish/worldsim"
)

const buildKeyHouse worldapi.BuildKey = 1

func houseKindOf(k core.EntityKind) (worldapi.BuildKey, bool) {
	if k == core.KindHouse {
		return buildKeyHouse, true
	}
	return 0, false
}

func buildCatalog() *role.Catalog {
	gatherer := role.Role{
		Kind: agentstate.RoleGatherer,
		Name: "gatherer",
		Options: []option.Option{
			&role.GatherOption{Kind: core.KindWood, MaxDist: 30},
			&role.WanderOption{},
		},
	}
	builder := role.Role{
		Kind: agentstate.RoleBuilder,
		Name: "builder",
		Options: []option.Option{
			&role.BuildOption{Key: buildKeyHouse, MaxCount: 3},
			&role.WanderOption{},
		},
	}
	fighter := role.Role{
		Kind: agentstate.RoleFighter,
		Name: "fighter",
		Options: []option.Option{
			&role.ThreatResponseOption{MinStrength: 2},
			&role.WanderOption{},
		},
	}
	return role.NewCatalog([]role.Role{gatherer, builder, fighter})
}

// runOpts are the flags shared by the root command's run, following the
// gascity convention of a plain options struct threaded through a testable
// run function rather than reading flags inline inside RunE.
type runOpts struct {
	width, height, border int
	agents                int
	ticks                 int
	seed                  uint32
	configPath            string
	watch                 bool
}

func newRootCmd() *cobra.Command {
	opts := runOpts{width: 60, height: 60, border: 3, agents: 4, ticks: 10, seed: 42}

	cmd := &cobra.Command{
		Use:   "skirmish-demo",
		Short: "Drive the skirmish controller over a worldsim.World for a few ticks",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDemo(opts, os.Stdout, os.Stderr)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.width, "width", opts.width, "grid width")
	flags.IntVar(&opts.height, "height", opts.height, "grid height")
	flags.IntVar(&opts.border, "border", opts.border, "playable-region border margin")
	flags.IntVar(&opts.agents, "agents", opts.agents, "number of agents to spawn on team 1")
	flags.IntVar(&opts.ticks, "ticks", opts.ticks, "number of ticks to simulate")
	flags.Uint32Var(&opts.seed, "seed", opts.seed, "controller RNG seed")
	flags.StringVar(&opts.configPath, "config", "", "path to a TOML DifficultyConfig file (optional)")
	flags.BoolVar(&opts.watch, "watch", false, "hot-reload --config on change while running")

	return cmd
}

func runDemo(opts runOpts, stdout, stderr io.Writer) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stdout})

	w := worldsim.NewWorld(opts.width, opts.height)
	w.PlaceThing(core.Position{X: 20, Y: 20}, worldapi.EntitySnapshot{
		Kind: core.KindWood, Harvestable: true,
	})
	w.SetStockpile(1, core.KindGold, 5)

	catalog := buildCatalog()
	c := controller.New(opts.width, opts.height, opts.border, catalog, houseKindOf, []core.EntityKind{core.KindHouse}, opts.seed)

	diff := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("loading %s: %w", opts.configPath, err)
		}
		diff = loaded
	}
	c.SetDifficulty(1, diff)

	if opts.configPath != "" && opts.watch {
		stop := config.Watch(opts.configPath, func(cfg config.DifficultyConfig) {
			c.SetDifficulty(1, cfg)
			log.Info().Str("path", opts.configPath).Msg("reloaded difficulty config")
		}, stderr)
		defer stop()
	}

	agentIDs := make([]core.AgentID, 0, opts.agents)
	for i := 0; i < opts.agents; i++ {
		id := core.AgentID(i + 1)
		w.SpawnAgent(worldapi.EntitySnapshot{
			ID: id, Team: 1, Kind: core.KindNone,
			Class: worldapi.ClassMeleeRanged,
			Pos:   core.Position{X: 10 + i, Y: 10},
		})
		agentIDs = append(agentIDs, id)
	}

	for tick := 0; tick < opts.ticks; tick++ {
		c.UpdateController(w)
		for _, id := range agentIDs {
			action := c.DecideAction(w, id)
			verb, arg := core.DecodeAction(action)
			fmt.Fprintf(stdout, "tick=%d agent=%d verb=%d arg=%d\n", tick, id, verb, arg) //nolint:errcheck // best-effort stdout
			w.ExecuteAction(id, action)
		}
		w.Advance()
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) //nolint:errcheck // best-effort stderr
		os.Exit(1)
	}
}
