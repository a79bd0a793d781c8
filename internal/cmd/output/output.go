package output

import (
	"io"

	"github.com/agentstation/roster/internal/cmd/table"
)

// Write formats data to w. An empty format is detected from the terminal.
func Write(w io.Writer, format string, data any) error {
	return NewFormatter(DetectFormat(format)).Format(w, data)
}

// Result writes rows for the table and markdown formats and raw for every
// other format.
func Result(w io.Writer, format string, rows table.Data, raw any) error {
	switch f := DetectFormat(format); f {
	case FormatTable, FormatMarkdown:
		return NewFormatter(f).Format(w, rows)
	default:
		return NewFormatter(f).Format(w, raw)
	}
}
