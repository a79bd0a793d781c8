package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/roster/cmd/roster/cmd/areas"
	"github.com/agentstation/roster/cmd/roster/cmd/countries"
	"github.com/agentstation/roster/cmd/roster/cmd/dedupe"
	"github.com/agentstation/roster/cmd/roster/cmd/duplicates"
	"github.com/agentstation/roster/cmd/roster/cmd/merge"
	"github.com/agentstation/roster/cmd/roster/cmd/serve"
	"github.com/agentstation/roster/internal/cmd/output"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(duplicates.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(dedupe.NewCommand(a))
	rootCmd.AddCommand(countries.NewCommand(a))
	rootCmd.AddCommand(areas.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewConfigCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewConfigCommand creates the config command.
func (a *App) NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Config prints the configuration after .env files, environment variables
and the config file have been applied. The API key is masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.Config()
			if f := output.Format(a.flags.Format); f == output.FormatJSON {
				return output.NewFormatter(f).Format(cmd.OutOrStdout(), cfg.Masked())
			}

			if cfg.File != "" {
				cmd.Printf("# %s\n", cfg.File)
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("roster %s\n", a.version)
			if a.flags.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
