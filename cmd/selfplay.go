package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/dropmind/config"
	"github.com/zeu5/dropmind/training"
	"github.com/zeu5/dropmind/util"
)

func SelfPlayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selfplay",
		Short: "Train an agent against periodic snapshots of itself",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Record(cfg.OutputDir); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s, err := training.NewSelfPlay(cfg, training.Options{
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
			fmt.Fprintf(out, "Primary wins: %d, opponent wins: %d, draws: %d, final rating: %.1f\n",
				wins, losses, draws, h.Rating())
			return nil
		},
	}
	AddTrainingFlags(cmd)
	cmd.Flags().IntVar(&opponentUpdateInterval, "opponent-update", config.Default().OpponentUpdateInterval, "Update opponent every X episodes")
	return cmd
}
