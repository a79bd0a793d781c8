// Package areas provides the areas command.
package areas

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/roster/internal/analysis"
	"github.com/agentstation/roster/internal/cmd/application"
	"github.com/agentstation/roster/internal/cmd/cmdutil"
	"github.com/agentstation/roster/internal/cmd/emoji"
	"github.com/agentstation/roster/internal/cmd/output"
	"github.com/agentstation/roster/internal/cmd/table"
	"github.com/agentstation/roster/internal/datastore"
)

// Flags holds the areas command flags.
type Flags struct {
	*cmdutil.MasterFlags
	Apply bool
}

// Result reports an areas run.
type Result struct {
	analysis.AreasResult `yaml:",inline"`
	Applied              bool   `json:"applied" yaml:"applied"`
	Backup               string `json:"backup,omitempty" yaml:"backup,omitempty"`
}

// NewCommand creates the areas command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cfg := app.Config()
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "areas",
		GroupID: "management",
		Short:   "Recompute interest areas from the area columns",
		Long: `Areas rebuilds the areas list and count of every master row from the
interest-area columns. A cell counts as selected only when it is a truthy
marker or repeats the area label.

Without --apply the master is left untouched and only the counts are shown.`,
		Example: `  roster areas -m master.xlsx
  roster areas -m master.xlsx --apply`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := Run(cmd.Context(), app, flags)
			if err != nil {
				return err
			}
			if err := output.Result(cmd.OutOrStdout(), app.OutputFormat(), table.AreasToTableData(res.AreasResult), res); err != nil {
				return err
			}
			if res.Suspicious > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %d rows had every area selected\n", emoji.Warning, res.Suspicious)
			}
			if res.Applied {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s Recomputed areas for %d rows (%d changed)\n", emoji.Success, res.Rows, res.Changed)
			}
			return nil
		},
	}

	flags.MasterFlags = cmdutil.AddMasterFlags(cmd, cfg)
	cmdutil.AddBackupFlag(cmd, flags.MasterFlags, cfg)
	cmd.Flags().BoolVar(&flags.Apply, "apply", false, "Save the recomputed areas")

	return cmd
}

// Run recomputes the areas of the master and saves them when requested.
func Run(ctx context.Context, app application.Application, flags *Flags) (*Result, error) {
	ctx = cmdutil.Context(ctx, app, "areas")

	master, ds, err := cmdutil.OpenMaster(ctx, app, flags.MasterFlags)
	if err != nil {
		return nil, err
	}
	defer func() { _ = datastore.Close(master) }()

	res := &Result{AreasResult: analysis.RecomputeAreas(ds, app.Config().AreaPrefix())}
	if res.Columns == 0 {
		app.Logger().Warn().Str("prefix", app.Config().AreaPrefix()).Msg("No interest-area columns found")
	}
	if !flags.Apply {
		return res, nil
	}

	res.Applied = true
	if res.Backup, err = cmdutil.SaveTo(ctx, app, master, "", flags.Sheet, ds, flags.Backup()); err != nil {
		return nil, err
	}
	return res, nil
}
