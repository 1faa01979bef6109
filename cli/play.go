package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tagsim/config"
	"tagsim/experiments"
	"tagsim/experiments/metrics"
	"tagsim/searcher/agent"
)

// PlayOptions holds flags that override the loaded config.
type PlayOptions struct {
	Game      string
	Players   int
	Games     int
	Seed      uint64
	MaxMoves  int
	MaxRounds int
	Output    string
	Database  string
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{}

	cmd := &cobra.Command{
		Use:   "play [config.yaml]",
		Short: "Play a series of games between agents",
		Long: `Play a series of games between the agents of a YAML config.

Without a config file the default match is played: a searching agent against
a random one at two-player nim. Flags override values from the file. Seats
that the config has no agent for are filled with random agents.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Game, "game", "g", "", "game to play")
	cmd.Flags().IntVarP(&opts.Players, "players", "p", 0, "number of players")
	cmd.Flags().IntVarP(&opts.Games, "games", "n", 0, "number of games")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed of the first game")
	cmd.Flags().IntVar(&opts.MaxMoves, "max-moves", 0, "truncate games after this many moves")
	cmd.Flags().IntVar(&opts.MaxRounds, "max-rounds", 0, "end games after this many rounds")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "directory for CSV records")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database accumulating records")

	return cmd
}

func runPlay(rootOpts *RootOptions, opts *PlayOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	cfg := config.Default()
	if len(args) == 1 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return formatter.Error(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	applyOverrides(cfg, opts, cmd)

	summary, _, err := experiments.Run(cfg)
	if err != nil {
		return formatter.Error(ExitCommandError, "failed to play", err)
	}

	return formatter.Success(summary, func(w io.Writer) {
		writeSummary(w, summary)
	})
}

func applyOverrides(cfg *config.Config, opts *PlayOptions, cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("game") {
		cfg.Game = opts.Game
	}
	if flags.Changed("players") {
		cfg.Players = opts.Players
		fitAgents(cfg)
	}
	if flags.Changed("games") {
		cfg.Games = opts.Games
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.Seed
	}
	if flags.Changed("max-moves") {
		cfg.MaxMoves = opts.MaxMoves
	}
	if flags.Changed("max-rounds") {
		cfg.MaxRounds = opts.MaxRounds
	}
	if flags.Changed("output") {
		cfg.Output = opts.Output
	}
	if flags.Changed("db") {
		cfg.Database = opts.Database
	}
}

// fitAgents trims or pads the agent list to one agent per player.
func fitAgents(cfg *config.Config) {
	if cfg.Players < 0 {
		return
	}
	if len(cfg.Agents) > cfg.Players {
		cfg.Agents = cfg.Agents[:cfg.Players]
		return
	}

	next := 0
	for _, a := range cfg.Agents {
		next = max(next, a.ID)
	}
	for len(cfg.Agents) < cfg.Players {
		next++
		cfg.Agents = append(cfg.Agents, metrics.AgentConfig{ID: next, Kind: agent.Random})
	}
}

func writeSummary(w io.Writer, summary experiments.Summary) {
	fmt.Fprintf(w, "%s: %d games, %d moves", summary.Game, summary.Games, summary.Moves)
	if summary.Truncated > 0 {
		fmt.Fprintf(w, ", %d truncated", summary.Truncated)
	}
	if summary.Fallbacks > 0 {
		fmt.Fprintf(w, ", %d illegal moves replaced", summary.Fallbacks)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-6s %-9s %5s %5s %5s %7s\n", "agent", "kind", "wins", "draws", "losses", "points")
	for _, s := range summary.Standings {
		fmt.Fprintf(w, "%-6d %-9s %5d %5d %5d %7.1f\n", s.Agent, s.Kind, s.Wins, s.Draws, s.Losses, s.Points)
	}
	if summary.Dir != "" {
		fmt.Fprintf(w, "records written to %s\n", summary.Dir)
	}
	if summary.Experiment != "" {
		fmt.Fprintf(w, "experiment %s stored\n", summary.Experiment)
	}
}
