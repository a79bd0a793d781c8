// Package cmdutil provides shared flags and dataset helpers for roster commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/roster/internal/config"
)

// MasterFlags locate the master dataset a command works on.
type MasterFlags struct {
	Path     string
	Sheet    string
	NoBackup bool
}

// AddMasterFlags adds --master and --sheet with defaults from cfg.
func AddMasterFlags(cmd *cobra.Command, cfg *config.Config) *MasterFlags {
	flags := &MasterFlags{}

	cmd.Flags().StringVarP(&flags.Path, "master", "m", cfg.Master.Path,
		"Master dataset (.csv, .tsv, .xlsx, .db)")
	cmd.Flags().StringVar(&flags.Sheet, "sheet", cfg.Master.Sheet,
		"Workbook sheet of the master")

	return flags
}

// AddBackupFlag adds --no-backup. Backups default to the master.backup
// setting.
func AddBackupFlag(cmd *cobra.Command, flags *MasterFlags, cfg *config.Config) {
	cmd.Flags().BoolVar(&flags.NoBackup, "no-backup", !cfg.Master.Backup,
		"Do not back up the target before writing")
}

// Backup reports whether a write should take a backup first.
func (f *MasterFlags) Backup() bool {
	return !f.NoBackup
}
