package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeu5/dropmind/policies"
)

func ExportCommand() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a saved Q-table into a TypeScript module",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				input = filepath.Join(cfg.OutputDir, "qtable_final.json")
			}
			var states int
			if policies.IsJSONPath(input) {
				n, err := policies.ExportTypeScript(input, output)
				if err != nil {
					return err
				}
				states = n
			} else {
				agent, err := policies.NewQAgent(cfg.AgentConfig())
				if err != nil {
					return err
				}
				if err := agent.LoadBinary(input); err != nil {
					return err
				}
				if err := policies.WriteTypeScript(agent.Table(), output); err != nil {
					return err
				}
				states = agent.TableSize()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d states from %s to %s\n", states, input, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Q-table to export (.json or .gob), defaults to the final table in the output dir")
	cmd.Flags().StringVarP(&output, "output", "o", "qtable.ts", "TypeScript file to write")
	return cmd
}
