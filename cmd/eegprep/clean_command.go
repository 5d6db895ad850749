package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "clean ROOT",
		Short:        "Drop empty and incomplete rows from every CSV under ROOT, in place",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := ctx.orchestrator.CleanAll(ctx.runContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range summary.Results {
				if r.Err != nil {
					fmt.Fprintf(out, "FAILED  %s: %v\n", r.Path, r.Err)
				} else if r.RowsRemoved > 0 {
					fmt.Fprintf(out, "Cleaned %s: removed %d of %d rows\n", r.Path, r.RowsRemoved, r.RowsBefore)
				}
			}
			fmt.Fprintf(out, "Cleaned %d files, removed %d rows, %d failed\n",
				summary.Files-summary.Failed, summary.RowsRemoved, summary.Failed)
			return nil
		},
	}
}
