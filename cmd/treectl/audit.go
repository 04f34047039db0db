package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notetree/internal/app"
)

func newAuditCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Report notes reachable from root that sit on a cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				ids, err := a.Tree.Audit(cmd.Context())
				if err != nil {
					return err
				}
				if ids == nil {
					ids = []string{}
				}
				if err := opts.print(cmd, map[string][]string{"cycleNoteIds": ids}); err != nil {
					return err
				}
				if len(ids) > 0 {
					return fmt.Errorf("found %d notes on a cycle", len(ids))
				}
				return nil
			})
		},
	}
}
