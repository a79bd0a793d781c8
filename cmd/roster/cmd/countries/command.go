// Package countries provides the countries command.
package countries

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
	"github.com/agentstation/roster/pkg/constants"
)

// DefaultTop is how many country groups are listed by default.
const DefaultTop = 10

// Flags holds the countries command flags.
type Flags struct {
	*cmdutil.MasterFlags
	Top   int
	Apply bool
}

// Result reports a countries run.
type Result struct {
	Report  *analysis.CountryReport `json:"report" yaml:"report"`
	Applied bool                    `json:"applied" yaml:"applied"`
	Changed int                     `json:"changed" yaml:"changed"`
	Backup  string                  `json:"backup,omitempty" yaml:"backup,omitempty"`
}

// NewCommand creates the countries command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cfg := app.Config()
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "countries",
		GroupID: "management",
		Short:   "Inspect and normalize country values",
		Long: `Countries inspects the raw country column of the master, counts blank and
distinct values, and groups spellings that fold to the same country.

With --apply the canonical country of every row is written to the
normalized country column, which is added when missing.`,
		Example: `  roster countries -m master.xlsx --top 20
  roster countries -m master.xlsx --apply`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := Run(cmd.Context(), app, flags)
			if err != nil {
				return err
			}
			if err := output.Result(cmd.OutOrStdout(), app.OutputFormat(), table.CountriesToTableData(res.Report), res); err != nil {
				return err
			}
			w := cmd.ErrOrStderr()
			fmt.Fprintf(w, "%s %s: %d rows, %d blank, %d raw values, %d countries\n", emoji.Info,
				res.Report.Column, res.Report.Total, res.Report.Blank, res.Report.UniqueRaw, res.Report.UniqueFolded)
			if res.Applied {
				fmt.Fprintf(w, "%s Updated %d cells of %s\n", emoji.Success, res.Changed, constants.CountryColumn)
			}
			return nil
		},
	}

	flags.MasterFlags = cmdutil.AddMasterFlags(cmd, cfg)
	cmdutil.AddBackupFlag(cmd, flags.MasterFlags, cfg)
	cmd.Flags().IntVar(&flags.Top, "top", DefaultTop, "Number of country groups to list (0 for all)")
	cmd.Flags().BoolVar(&flags.Apply, "apply", false, "Write the normalized country column and save")

	return cmd
}

// Run analyses the master countries and applies them when requested.
func Run(ctx context.Context, app application.Application, flags *Flags) (*Result, error) {
	ctx = cmdutil.Context(ctx, app, "countries")
	cfg := app.Config()

	master, ds, err := cmdutil.OpenMaster(ctx, app, flags.MasterFlags)
	if err != nil {
		return nil, err
	}
	defer func() { _ = datastore.Close(master) }()

	canon := cfg.CountryCanon()
	rep, err := analysis.Countries(ds, nil, canon, flags.Top)
	if err != nil {
		return nil, err
	}

	res := &Result{Report: rep}
	if !flags.Apply {
		return res, nil
	}

	res.Applied = true
	res.Changed = analysis.ApplyCountries(ds, cfg.CountryCandidates(), canon)
	if res.Backup, err = cmdutil.SaveTo(ctx, app, master, "", flags.Sheet, ds, flags.Backup()); err != nil {
		return nil, err
	}
	return res, nil
}
