package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"notetree/internal/app"
	"notetree/internal/config"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	dbPath  string
	verbose bool
	json    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "treectl",
		Short: "Inspect and repair the note tree",
		Long: `treectl runs tree, attribute and revision operations directly against
a notetree database. Output is YAML unless --json is given.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the database (defaults to DB_PATH)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Output in JSON format")

	cmd.AddCommand(
		newValidateCmd(opts),
		newCloneCmd(opts),
		newMoveCmd(opts),
		newResortCmd(opts),
		newDisplayCmd(opts),
		newRevisionsCmd(opts),
		newAuditCmd(opts),
	)
	return cmd
}

// open loads the configuration, applies --db and opens the engines.
func (o *rootOptions) open() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	return app.Open(cfg)
}

// print writes v to the command output as YAML or JSON.
func (o *rootOptions) print(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	if o.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// withApp opens the engines, runs fn and closes them again.
func (o *rootOptions) withApp(fn func(a *app.App) error) error {
	a, err := o.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()
	return fn(a)
}
