package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"eegprep/internal/config"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:          "rename ROOT",
		Short:        "Rename raw recording files in each subject folder to canonical names",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := ctx.orchestrator.RenameAll(ctx.runContext(cmd.Context()), args[0], config.DefaultRenameMap())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %d files, skipped %d\n", summary.Renamed, summary.Skipped)
			return nil
		},
	}
}
