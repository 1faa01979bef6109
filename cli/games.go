package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tagsim/games"
)

// GameInfo describes a registered game.
type GameInfo struct {
	Name       string `json:"name"`
	MinPlayers int    `json:"min_players"`
	MaxPlayers int    `json:"max_players"`
}

// NewGamesCommand creates the games command.
func NewGamesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "games",
		Short:         "List the playable games",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			infos := []GameInfo{}
			for _, name := range games.Names() {
				g, err := games.Lookup(name)
				if err != nil {
					return formatter.Error(ExitFailure, "failed to load game", err)
				}
				min, max := g.Players()
				infos = append(infos, GameInfo{Name: name, MinPlayers: min, MaxPlayers: max})
			}

			return formatter.Success(infos, func(w io.Writer) {
				for _, info := range infos {
					fmt.Fprintf(w, "%-8s %d-%d players\n", info.Name, info.MinPlayers, info.MaxPlayers)
				}
			})
		},
	}
}
