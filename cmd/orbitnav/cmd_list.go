package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/orbit-nav/scenario"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List builtin scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range scenario.Builtins() {
				sc, err := scenario.LoadBuiltin(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d agent(s)\n", name, len(sc.Agents))
			}
			return nil
		},
	}
}
