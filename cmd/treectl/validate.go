package main

import (
	"github.com/spf13/cobra"

	"notetree/internal/app"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var branchID string

	cmd := &cobra.Command{
		Use:   "validate PARENT_NOTE_ID CHILD_NOTE_ID",
		Short: "Check whether a note may be placed under a parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				v, err := a.Tree.ValidateParentChild(cmd.Context(), args[0], args[1], branchID)
				if err != nil {
					return err
				}
				return opts.print(cmd, v)
			})
		},
	}
	cmd.Flags().StringVar(&branchID, "branch", "", "Branch being moved, ignored as an existing placement")
	return cmd
}
