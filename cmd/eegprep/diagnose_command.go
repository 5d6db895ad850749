package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiagnoseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "diagnose ROOT",
		Short:        "Run the diagnostic battery over every target recording under ROOT",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := ctx.orchestrator.DiagnoseAll(ctx.runContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range summary.Results {
				fmt.Fprintf(out, "=== %s ===\n", r.Path)
				fmt.Fprintln(out, r.Report.Render())
			}
			fmt.Fprintf(out, "Found %d, clean %d, problematic %d, skipped %d\n",
				summary.Found, summary.Processed, summary.Problematic, summary.Skipped)
			return nil
		},
	}
}
