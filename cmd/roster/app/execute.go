package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/roster/internal/cmd/output"
	"github.com/agentstation/roster/internal/config"
)

// Execute runs the roster CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	// Commands take their flag defaults from the configuration, so it is
	// loaded before the command tree is built.
	if a.config == nil {
		cfg, err := config.Load(ConfigFileFromArgs(args))
		if err != nil {
			return err
		}
		a.config = cfg
	}

	logger := a.NewLogger()
	a.logger = &logger

	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "roster",
		Short:   "Volunteer roster merge and dashboard CLI",
		Version: a.version,
		Long: `Roster keeps a master dataset of volunteers up to date.

It merges incoming registration batches into the master without creating
duplicates, reports and removes duplicate rows, normalizes countries and
interest areas, and serves a dashboard API over the result.

Datasets may be CSV/TSV files, Excel workbooks or SQLite databases; the
format is chosen by file extension.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&a.flags.ConfigFile, "config", "", "config file (default is ./roster.yaml, then $HOME/.roster.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.flags.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.flags.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.flags.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&a.flags.Format, "format", "o", "", "output format: table, json, yaml, markdown")
	rootCmd.PersistentFlags().StringVar(&a.flags.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("roster {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(a.flags.Format)
	if err != nil {
		return err
	}
	a.flags.Format = string(format)

	// Reinitialize logger with the parsed flags
	logger := a.NewLogger()
	*a.logger = logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
