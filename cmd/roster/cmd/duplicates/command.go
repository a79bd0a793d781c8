// Package duplicates provides the duplicates command.
package duplicates

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/roster/internal/analysis"
	"github.com/agentstation/roster/internal/cmd/application"
	"github.com/agentstation/roster/internal/cmd/cmdutil"
	"github.com/agentstation/roster/internal/cmd/emoji"
	"github.com/agentstation/roster/internal/cmd/output"
	"github.com/agentstation/roster/internal/cmd/table"
	"github.com/agentstation/roster/internal/datastore"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/store"
)

// Flags holds the duplicates command flags.
type Flags struct {
	*cmdutil.MasterFlags
	Export string
}

// NewCommand creates the duplicates command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "duplicates",
		Aliases: []string{"dups"},
		GroupID: "core",
		Short:   "Find master rows that share an identity key",
		Long: `Duplicates groups master rows sharing a name, email, phone, government ID
or name with date of birth, and prints the number of groups per key.

With --export the groups are written to a workbook: a Resumen sheet followed
by one sheet per key with the key type, key value and group size prepended.`,
		Example: `  roster duplicates -m master.xlsx
  roster duplicates -m master.xlsx --export duplicados.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := Run(cmd.Context(), app, flags)
			if err != nil {
				return err
			}
			if err := output.Result(cmd.OutOrStdout(), app.OutputFormat(), table.DuplicatesToTableData(rep), rep); err != nil {
				return err
			}
			if flags.Export != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s Duplicate groups written to %s\n", emoji.Success, flags.Export)
			}
			return nil
		},
	}

	flags.MasterFlags = cmdutil.AddMasterFlags(cmd, app.Config())
	cmd.Flags().StringVar(&flags.Export, "export", "", "Write the groups to this .xlsx workbook")

	return cmd
}

// Run analyses the master and writes the workbook when requested.
func Run(ctx context.Context, app application.Application, flags *Flags) (*analysis.DuplicateReport, error) {
	ctx = cmdutil.Context(ctx, app, "duplicates")

	format, err := exportFormat(flags.Export)
	if err != nil {
		return nil, err
	}

	master, ds, err := cmdutil.OpenMaster(ctx, app, flags.MasterFlags)
	if err != nil {
		return nil, err
	}
	defer func() { _ = datastore.Close(master) }()

	resolver, err := app.Config().Resolver()
	if err != nil {
		return nil, err
	}
	rep := analysis.Duplicates(ds, resolver)

	if format != "" {
		err := store.WriteFileAtomic(flags.Export, func(w io.Writer) error {
			return rep.WriteWorkbook(w, ds)
		})
		if err != nil {
			return nil, err
		}
	}
	return rep, nil
}

// exportFormat rejects export targets that are not workbooks.
func exportFormat(path string) (datastore.Format, error) {
	if path == "" {
		return "", nil
	}
	format, err := datastore.Detect(path)
	if err != nil {
		return "", err
	}
	if format != datastore.FormatXLSX {
		return "", fmt.Errorf("%w: duplicate groups export to .xlsx only, got %s", errors.ErrUnsupportedFormat, path)
	}
	return format, nil
}
