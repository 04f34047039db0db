package main

import (
	"github.com/spf13/cobra"

	"notetree/internal/app"
)

func newDisplayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "display NOTE_ID...",
		Short: "Show notes with their resolved css and icon classes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				ctx := cmd.Context()
				if err := a.Archive.Refresh(ctx); err != nil {
					return err
				}
				notes, err := a.Notes.GetNotes(ctx, args)
				if err != nil {
					return err
				}
				return opts.print(cmd, notes)
			})
		},
	}
}
