package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tagsim/experiments"
)

// BenchOptions holds flags for the bench command.
type BenchOptions struct {
	Game       string
	Players    int
	Seed       uint64
	Duration   time.Duration
	Goroutines []int
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BenchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure search throughput per goroutine count",
		Long: `Search the opening state of a game for a fixed duration at several levels of
parallelism and report the episodes completed at each.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			results, err := experiments.RunThroughput(opts.Game, opts.Players, opts.Seed, opts.Duration, opts.Goroutines)
			if err != nil {
				return formatter.Error(ExitCommandError, "failed to benchmark", err)
			}

			return formatter.Success(results, func(w io.Writer) {
				fmt.Fprintf(w, "%-10s %9s %13s %11s\n", "goroutines", "episodes", "full playouts", "episodes/s")
				for _, r := range results {
					fmt.Fprintf(w, "%-10d %9d %13d %11.0f\n", r.Goroutines, r.Episodes, r.FullPlayouts, r.EpisodesPerSecond)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Game, "game", "g", "nim", "game to search")
	cmd.Flags().IntVarP(&opts.Players, "players", "p", 2, "number of players")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "seed of the searched state")
	cmd.Flags().DurationVarP(&opts.Duration, "duration", "d", 100*time.Millisecond, "search time per level")
	cmd.Flags().IntSliceVar(&opts.Goroutines, "goroutines", experiments.DefaultGoroutines, "goroutine counts to measure")

	return cmd
}
