package main

import (
	"github.com/spf13/cobra"

	"notetree/internal/app"
	"notetree/internal/handlers"
)

func newRevisionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revisions",
		Short: "List and erase note revisions",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list NOTE_ID",
			Short: "List the active revisions of a note, newest first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(func(a *app.App) error {
					revs, err := a.Revisions.List(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					return opts.print(cmd, handlers.NewRevisionResponses(revs))
				})
			},
		},
		&cobra.Command{
			Use:   "erase REVISION_ID",
			Short: "Erase one revision",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(func(a *app.App) error {
					erased, err := a.Revisions.Erase(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					n := 0
					if erased {
						n = 1
					}
					return opts.print(cmd, handlers.EraseAllResponse{Erased: n})
				})
			},
		},
		&cobra.Command{
			Use:   "erase-all NOTE_ID",
			Short: "Erase every active revision of a note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(func(a *app.App) error {
					n, err := a.Revisions.EraseAll(cmd.Context(), args[0])
					if printErr := opts.print(cmd, handlers.EraseAllResponse{Erased: n}); printErr != nil {
						return printErr
					}
					return err
				})
			},
		},
	)
	return cmd
}
