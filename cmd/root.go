package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func GetRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dropmind",
		Short:         "Train and evaluate Q-learning agents for 3x5 Connect Three",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return UpdateFlags(cmd)
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		SelfPlayCommand(),
		TrainCommand(),
		ExportCommand(),
		EvaluateCommand(),
	)
	return cmd
}
