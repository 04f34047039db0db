package main

import (
	"github.com/spf13/cobra"

	"notetree/internal/app"
)

func newResortCmd(opts *rootOptions) *cobra.Command {
	var directoriesFirst bool

	cmd := &cobra.Command{
		Use:   "resort PARENT_NOTE_ID",
		Short: "Sort the children of a note alphabetically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				placements, err := a.Tree.Resort(cmd.Context(), args[0], directoriesFirst)
				if err != nil {
					return err
				}
				return opts.print(cmd, placements)
			})
		},
	}
	cmd.Flags().BoolVar(&directoriesFirst, "directories-first", false, "Place notes with children first")
	return cmd
}
