package main

import (
	"github.com/spf13/cobra"

	"notetree/internal/app"
	"notetree/internal/handlers"
)

func newMoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move BRANCH_ID PARENT_NOTE_ID",
		Short: "Move a branch under another parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				branch, err := a.Tree.MoveBranch(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return opts.print(cmd, handlers.NewBranchResponse(branch))
			})
		},
	}
}
