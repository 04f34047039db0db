package main

import (
	"github.com/spf13/cobra"

	"notetree/internal/app"
	"notetree/internal/handlers"
)

func newCloneCmd(opts *rootOptions) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "clone NOTE_ID PARENT_NOTE_ID",
		Short: "Place a note under an additional parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				branch, err := a.Tree.Clone(cmd.Context(), args[0], args[1], prefix)
				if err != nil {
					return err
				}
				return opts.print(cmd, handlers.NewBranchResponse(branch))
			})
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Branch prefix")
	return cmd
}
