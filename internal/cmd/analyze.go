package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	strom "github.com/ACiDekCZ/strom-sub000"
	"github.com/ACiDekCZ/strom-sub000/internal/treefile"
	"github.com/ACiDekCZ/strom-sub000/pkg/match"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <existing.yaml> <incoming.yaml>",
		Short: "Match persons across two tree files and print a report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := treefile.Load(args[0])
			if err != nil {
				return err
			}
			incoming, err := treefile.Load(args[1])
			if err != nil {
				return err
			}

			client, err := strom.New()
			if err != nil {
				return err
			}
			state := client.NewState(existing, incoming)

			out := cmd.OutOrStdout()
			stats := state.Stats()
			fmt.Fprintf(out, "Incoming persons: %d, unmatched: %d, with conflicts: %d\n",
				stats.Total, stats.Unmatched, stats.WithConflicts)
			fmt.Fprint(out, match.Summary(state.Matches()))
			return nil
		},
	}
}
