package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/dropmind/training"
	"github.com/zeu5/dropmind/util"
)

func TrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a single agent that moves for both players",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Record(cfg.OutputDir); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s, err := training.NewSolo(cfg, training.Options{
				Logger:   slog.Default(),
				Out:      out,
				Progress: util.NewTerminalPrinter(out),
			})
			if err != nil {
				return err
			}
			if resumeFrom != "" {
				if err := s.LoadAgent(resumeFrom); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			h, err := s.Run(ctx)
			if err != nil {
				return err
			}
			wins, losses, draws := h.Totals()
			fmt.Fprintf(out, "Wins: %d, losses: %d, draws: %d\n", wins, losses, draws)
			return nil
		},
	}
	AddTrainingFlags(cmd)
	return cmd
}
