package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"eegprep/internal/batch"
)

func newPruneCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var keepFiltered bool

	cmd := &cobra.Command{
		Use:          "prune ROOT",
		Short:        "Delete CSV files under ROOT that are not in the target set",
		Long:         "Delete CSV files under ROOT that are not in the configured target set, or with --keep-filtered, every CSV whose name does not end with the filtered-output suffix. Deletion is permanent and requires --force.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := batch.PruneKeepTargets
			if keepFiltered {
				mode = batch.PruneKeepFiltered
			}
			summary, err := ctx.orchestrator.Prune(ctx.runContext(cmd.Context()), args[0], mode, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d files, kept %d\n", summary.Deleted, summary.Kept)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm permanent deletion")
	cmd.Flags().BoolVar(&keepFiltered, "keep-filtered", false, "Keep filtered outputs instead of the target set")
	return cmd
}
