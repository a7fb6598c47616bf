// Package cmd implements the strom CLI: batch commands for analyzing and
// merging two family tree files. The interactive review flow lives in the
// desktop client; this CLI drives the engine with default decisions.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ACiDekCZ/strom-sub000/pkg/logging"
)

// Execute runs the root command with the given arguments.
func Execute(args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "strom",
		Short:         "Family tree record linkage and merging",
		Long:          "strom matches persons across two family tree files and merges them into a single consistent tree.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional; ignore a missing file.
			_ = godotenv.Load()

			if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			viper.SetEnvPrefix("STROM")
			viper.AutomaticEnv()

			if cfg := viper.GetString("config"); cfg != "" {
				viper.SetConfigFile(cfg)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}

			logging.SetLevel(viper.GetString("log-level"))
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newBackupCmd())

	return root
}
