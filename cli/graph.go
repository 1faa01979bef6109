package cli

import (
	"bytes"
	"io"

	"github.com/spf13/cobra"

	"tagsim/games"
)

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "graph <game>",
		Short: "Print a game's rule graph in Graphviz DOT",
		Long: `Print the rule graph of a game in Graphviz DOT format.

Render it with: tagsim graph feast | dot -Tsvg > feast.svg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			g, err := games.Lookup(args[0])
			if err != nil {
				return formatter.Error(ExitCommandError, "failed to find game", err)
			}

			var buf bytes.Buffer
			if err := g.Rules().WriteDot(&buf); err != nil {
				return formatter.Error(ExitFailure, "failed to write graph", err)
			}

			return formatter.Success(map[string]string{"game": args[0], "dot": buf.String()}, func(w io.Writer) {
				w.Write(buf.Bytes())
			})
		},
	}
}
