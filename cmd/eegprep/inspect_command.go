package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "inspect ROOT",
		Short:        "Survey ROOT for filtered recordings and summarize a sample file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := ctx.orchestrator.InspectAll(ctx.runContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Render())
			return nil
		},
	}
}
