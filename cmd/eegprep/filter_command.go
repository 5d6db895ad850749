package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFilterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "filter ROOT",
		Short:        "Band-limit every target recording under ROOT",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := ctx.orchestrator.FilterAll(ctx.runContext(cmd.Context()), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range summary.Results {
				if r.Err != nil {
					fmt.Fprintf(out, "FAILED  %s: %v\n", r.Path, r.Err)
					continue
				}
				fmt.Fprintf(out, "OK      %s -> %s", r.Path, r.Output)
				if n := r.Fallbacks(); n > 0 {
					fmt.Fprintf(out, " (%d channels degraded)", n)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Found %d, processed %d, failed %d, skipped %d\n",
				summary.Found, summary.Processed, summary.Problematic, summary.Skipped)
			return nil
		},
	}
}
