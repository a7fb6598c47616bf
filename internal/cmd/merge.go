package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	strom "github.com/ACiDekCZ/strom-sub000"
	"github.com/ACiDekCZ/strom-sub000/internal/treefile"
	"github.com/ACiDekCZ/strom-sub000/pkg/errors"
)

func newMergeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge <existing.yaml> <incoming.yaml>",
		Short: "Merge two tree files non-interactively with default decisions",
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
			result := client.ExecuteMerge(cmd.Context(), state)

			out := cmd.OutOrStdout()
			if !result.Success {
				for _, msg := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", msg)
				}
				return errors.New("merge failed, original tree left untouched")
			}

			fmt.Fprintf(out, "Merged %d, added %d, partnerships %d (dropped %d)\n",
				result.Stats.Merged, result.Stats.Added,
				result.Stats.Partnerships, result.Stats.DroppedPartnerships)
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}

			if output != "" {
				if err := treefile.Save(output, result.MergedData); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote merged tree to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the merged tree to this file")
	return cmd
}
