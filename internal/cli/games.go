package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List games waiting for an opponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result OpenGames

			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show server counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats

			if err := client.Get("/api/v1/stats", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newResultsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results [id]",
		Short: "List finished games, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output, cmd.OutOrStdout())

			if len(args) == 1 {
				var result Result
				if err := client.Get("/api/v1/results/"+url.PathEscape(args[0]), &result); err != nil {
					return err
				}
				out.Print(result)
				return nil
			}

			path := "/api/v1/results"
			if limit > 0 {
				path += fmt.Sprintf("?limit=%d", limit)
			}
			var result Results
			if err := client.Get(path, &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (server default if unset)")

	return cmd
}
