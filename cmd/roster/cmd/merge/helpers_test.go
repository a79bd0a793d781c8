package merge

import "github.com/agentstation/roster/internal/cmd/cmdutil"

func masterFlags(path string) *cmdutil.MasterFlags {
	return &cmdutil.MasterFlags{Path: path}
}
