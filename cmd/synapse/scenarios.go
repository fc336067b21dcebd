package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var scenariosFile string

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the scenario catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadScenarioCatalog(scenariosFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		list := catalog.List()
		fmt.Fprintln(out, styleHeader.Render(fmt.Sprintf("Scenario catalog (%d scenarios)", len(list))))
		for _, s := range list {
			fmt.Fprintf(out, "\n  %s [%s]\n", styleHeader.Render(s.ID), s.Vertical)
			fmt.Fprintf(out, "    %s\n", s.Title)
			fmt.Fprintf(out, "    %s\n", s.Description)
			if len(s.AllowedActions) > 0 {
				fmt.Fprintf(out, "    actions: %s\n", strings.Join(s.AllowedActions, ", "))
			}
			if s.SuccessCriteria != "" {
				fmt.Fprintf(out, "    success: %s\n", s.SuccessCriteria)
			}
		}
		return nil
	},
}

func init() {
	scenariosCmd.Flags().StringVar(&scenariosFile, "scenarios", "", "Path to a scenario catalog file (built-in catalog when omitted)")
}
