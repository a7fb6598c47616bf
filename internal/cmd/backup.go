package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ACiDekCZ/strom-sub000/internal/treefile"
	"github.com/ACiDekCZ/strom-sub000/pkg/merge"
)

func newBackupCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage on-disk rollback points for tree files",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", ".strom/backups", "backup directory")

	create := &cobra.Command{
		Use:   "create <tree.yaml>",
		Short: "Store a snapshot of a tree file and print its key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := treefile.Load(args[0])
			if err != nil {
				return err
			}
			key, err := merge.NewFileStore(dir).Create(cmd.Context(), tree)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	var output string
	restore := &cobra.Command{
		Use:   "restore <key>",
		Short: "Write the snapshot stored under key back to a tree file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := merge.NewFileStore(dir).Restore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := treefile.Save(output, tree); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored snapshot %s to %s\n", args[0], output)
			return nil
		},
	}
	restore.Flags().StringVarP(&output, "output", "o", "tree.yaml", "restore target file")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshot keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := merge.NewFileStore(dir).Keys()
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove the snapshot stored under key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return merge.NewFileStore(dir).Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(create, restore, list, remove)
	return cmd
}
