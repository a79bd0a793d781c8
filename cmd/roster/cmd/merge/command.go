// Package merge provides the merge command.
package merge

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/roster/internal/cmd/application"
	"github.com/agentstation/roster/internal/cmd/cmdutil"
	"github.com/agentstation/roster/internal/cmd/emoji"
	"github.com/agentstation/roster/internal/cmd/output"
	"github.com/agentstation/roster/internal/datastore"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/merge"
	"github.com/agentstation/roster/pkg/store"
)

// Flags holds the merge command flags.
type Flags struct {
	*cmdutil.MasterFlags
	Incoming      string
	IncomingSheet string
	Output        string
	DryRun        bool
}

// Result is what a merge run produced.
type Result struct {
	Report *merge.Report `json:"report" yaml:"report"`
	Target string        `json:"target" yaml:"target"`
	Backup string        `json:"backup,omitempty" yaml:"backup,omitempty"`
	DryRun bool          `json:"dry_run" yaml:"dry_run"`
	Rows   int           `json:"rows" yaml:"rows"`
}

// NewCommand creates the merge command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cfg := app.Config()
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "merge",
		GroupID: "core",
		Short:   "Merge an incoming batch into the master roster",
		Long: `Merge folds a batch of incoming volunteer records into the master dataset.

Each incoming record is matched against the master by email, then phone,
then government ID, then full name together with date of birth. A matched
record only fills a blank country and refreshes the interest areas of its
master row. Unmatched records are appended.

The master is backed up before it is replaced, and the write is atomic:
either the merged dataset is saved or nothing on disk changes.`,
		Example: `  roster merge --master master.xlsx --incoming wpforms.csv
  roster merge -m master.xlsx --incoming batch.xlsx --incoming-sheet Sheet1
  roster merge -m master.xlsx --incoming wpforms.csv --dry-run -o markdown
  roster merge -m master.xlsx --incoming wpforms.csv --output merged.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := Run(cmd.Context(), app, flags)
			if err != nil {
				return err
			}
			if err := output.Write(cmd.OutOrStdout(), app.OutputFormat(), res.Report); err != nil {
				return err
			}
			printSummary(cmd, res)
			return nil
		},
	}

	flags.MasterFlags = cmdutil.AddMasterFlags(cmd, cfg)
	cmdutil.AddBackupFlag(cmd, flags.MasterFlags, cfg)
	cmd.Flags().StringVarP(&flags.Incoming, "incoming", "i", "", "Incoming batch (.csv, .tsv, .xlsx)")
	cmd.Flags().StringVar(&flags.IncomingSheet, "incoming-sheet", cfg.Master.IncomingSheet, "Workbook sheet of the incoming batch (default first sheet)")
	cmd.Flags().StringVar(&flags.Output, "output", "", "Write the merged dataset here instead of over the master")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Report what would change without writing")
	_ = cmd.MarkFlagRequired("incoming")

	return cmd
}

// Run merges the incoming batch into the master and persists the result
// unless flags.DryRun is set.
func Run(ctx context.Context, app application.Application, flags *Flags) (*Result, error) {
	ctx = cmdutil.Context(ctx, app, "merge")
	logger := app.Logger()

	if flags.Path == "" {
		return nil, &errors.ValidationError{Field: "master", Message: "a master dataset is required (--master or master.path)"}
	}
	if flags.Incoming == "" {
		return nil, &errors.ValidationError{Field: "incoming", Message: "an incoming batch is required"}
	}

	master, err := app.Store(flags.Path, store.WithSheet(flags.Sheet))
	if err != nil {
		return nil, err
	}
	defer func() { _ = datastore.Close(master) }()

	masterDS, err := cmdutil.LoadOrEmpty(ctx, master)
	if err != nil {
		return nil, err
	}

	incoming, err := app.Store(flags.Incoming, store.WithSheet(flags.IncomingSheet))
	if err != nil {
		return nil, err
	}
	defer func() { _ = datastore.Close(incoming) }()

	incomingDS, err := incoming.Load(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("master", master.Location()).
		Str("incoming", incoming.Location()).
		Int("master_rows", masterDS.Len()).
		Int("incoming_rows", incomingDS.Len()).
		Msg("Datasets loaded")

	engine := merge.New(app.Config().MergeOptions(logger)...)
	merged, report, err := engine.Merge(ctx, masterDS, incomingDS)
	if err != nil {
		return nil, err
	}

	res := &Result{Report: report, Target: master.Location(), DryRun: flags.DryRun, Rows: merged.Len()}
	if flags.Output != "" {
		res.Target = flags.Output
	}
	if flags.DryRun {
		return res, nil
	}

	if res.Backup, err = cmdutil.SaveTo(ctx, app, master, flags.Output, flags.Sheet, merged, flags.Backup()); err != nil {
		return nil, err
	}
	return res, nil
}

func printSummary(cmd *cobra.Command, res *Result) {
	w := cmd.ErrOrStderr()
	if res.DryRun {
		fmt.Fprintf(w, "%s Dry run: %s (nothing written)\n", emoji.Info, res.Report.Summary())
		return
	}
	fmt.Fprintf(w, "%s %s\n", emoji.Success, res.Report.Summary())
	if res.Backup != "" {
		fmt.Fprintf(w, "  backup: %s\n", res.Backup)
	}
	fmt.Fprintf(w, "  saved:  %s (%d rows)\n", res.Target, res.Rows)
}
