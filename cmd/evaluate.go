package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeu5/dropmind/policies"
	"github.com/zeu5/dropmind/training"
)

func EvaluateCommand() *cobra.Command {
	var model string
	var games int
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Play a saved Q-table greedily against a random player",
		RunE: func(cmd *cobra.Command, args []string) error {
			if model == "" {
				model = filepath.Join(cfg.OutputDir, "qtable_final.gob")
			}
			agent, err := policies.NewQAgent(cfg.AgentConfig())
			if err != nil {
				return err
			}
			if err := agent.Load(model); err != nil {
				return err
			}
			agent.SetEpsilon(0)

			baselineSeed := cfg.Seed
			if baselineSeed != 0 {
				baselineSeed++
			}
			result, err := training.Evaluate(cmd.Context(), agent, policies.NewRandomPolicy(baselineSeed), games, cfg.Shaping)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Evaluated %s over %d games\n", model, result.Total.Games())
			for _, row := range []struct {
				name  string
				tally training.Tally
			}{
				{"as A", result.AsA},
				{"as B", result.AsB},
				{"total", result.Total},
			} {
				fmt.Fprintf(out, "%-6s wins: %d, losses: %d, draws: %d\n", row.name, row.tally.Wins, row.tally.Losses, row.tally.Draws)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Q-table to evaluate (.gob or .json), defaults to the final table in the output dir")
	cmd.Flags().IntVarP(&games, "games", "g", 1000, "Number of games to play")
	return cmd
}
