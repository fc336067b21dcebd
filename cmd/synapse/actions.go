package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/action/builtin"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the action catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := action.NewRegistry()
		if err := builtin.RegisterAll(registry, builtin.New(0)); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		descriptors := registry.Describe()
		fmt.Fprintln(out, styleHeader.Render(fmt.Sprintf("Action catalog (%d actions)", len(descriptors))))
		for _, d := range descriptors {
			fmt.Fprintf(out, "  %s %s\n", styleSummaryLabel.Width(34).Render(d.Name), d.Description)
		}
		return nil
	},
}
