// Package dedupe provides the dedupe command.
package dedupe

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
	"github.com/agentstation/roster/pkg/errors"
)

// Flags holds the dedupe command flags.
type Flags struct {
	*cmdutil.MasterFlags
	Output  string
	InPlace bool
}

// Result reports a dedupe run.
type Result struct {
	analysis.DedupeResult `yaml:",inline"`
	Target                string `json:"target" yaml:"target"`
	Backup                string `json:"backup,omitempty" yaml:"backup,omitempty"`
}

// NewCommand creates the dedupe command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "dedupe",
		GroupID: "management",
		Short:   "Collapse rows that share a full name",
		Long: `Dedupe keeps, for every normalized full name, the row with the most filled
fields. Ties keep the first row; rows without a name are always kept and the
original order is preserved.

The result goes to --output. Use --in-place to replace the master instead;
a backup is taken first.`,
		Example: `  roster dedupe -m master.xlsx --output deduped.xlsx
  roster dedupe -m master.xlsx --in-place`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := Run(cmd.Context(), app, flags)
			if err != nil {
				return err
			}
			if err := output.Result(cmd.OutOrStdout(), app.OutputFormat(), table.DedupeToTableData(res.DedupeResult), res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Removed %d of %d rows, saved %s\n", emoji.Success, res.Removed, res.Before, res.Target)
			return nil
		},
	}

	flags.MasterFlags = cmdutil.AddMasterFlags(cmd, app.Config())
	cmd.Flags().StringVar(&flags.Output, "output", "", "Write the deduplicated dataset here")
	cmd.Flags().BoolVar(&flags.InPlace, "in-place", false, "Replace the master, backing it up first")
	cmd.MarkFlagsMutuallyExclusive("output", "in-place")
	cmd.MarkFlagsOneRequired("output", "in-place")

	return cmd
}

// Run deduplicates the master and writes the result.
func Run(ctx context.Context, app application.Application, flags *Flags) (*Result, error) {
	if flags.Output == "" && !flags.InPlace {
		return nil, &errors.ValidationError{Field: "output", Message: "either --output or --in-place is required"}
	}
	ctx = cmdutil.Context(ctx, app, "dedupe")

	master, ds, err := cmdutil.OpenMaster(ctx, app, flags.MasterFlags)
	if err != nil {
		return nil, err
	}
	defer func() { _ = datastore.Close(master) }()

	resolver, err := app.Config().Resolver()
	if err != nil {
		return nil, err
	}
	deduped, counts := analysis.DedupeByName(ds, resolver)
	app.Logger().Info().
		Int("before", counts.Before).
		Int("after", counts.After).
		Int("removed", counts.Removed).
		Msg("Deduplicated by name")

	res := &Result{DedupeResult: counts, Target: master.Location()}
	path := flags.Output
	if flags.InPlace {
		path = ""
	} else {
		res.Target = path
	}
	// An in-place rewrite always keeps the previous master.
	if res.Backup, err = cmdutil.SaveTo(ctx, app, master, path, flags.Sheet, deduped, flags.InPlace); err != nil {
		return nil, err
	}
	return res, nil
}
