// Package emoji provides the status symbols printed by roster commands.
package emoji

// Status symbols for messages written to stderr.
const (
	// Success marks a completed write or export.
	Success = "✓"

	// Warning marks data that looks wrong but did not stop the command.
	Warning = "!"

	// Stop marks a shutdown.
	Stop = "✗"

	// Info marks informational lines such as dry runs and listen addresses.
	Info = "i"
)
