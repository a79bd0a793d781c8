package output

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/roster/internal/cmd/table"
)

type summary struct {
	Rows    int    `json:"rows"`
	Removed int    `json:"removed_rows"`
	Target  string `json:"target,omitempty"`
}

type tabular struct{}

func (tabular) Table() ([]string, [][]string) {
	return []string{"Key", "Count"}, [][]string{{"email", "2"}}
}

type document struct{ tabular }

func (document) Markdown(w io.Writer) error {
	_, err := io.WriteString(w, "## custom\n")
	return err
}

func format(t *testing.T, f Format, data any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(f).Format(&buf, data))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestTableFormatter(t *testing.T) {
	out := format(t, FormatTable, table.Data{
		Headers: []string{"Nombre", "Filas"},
		Rows:    [][]string{{"Ana", "3"}},
	})
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "3")

	out = format(t, FormatTable, tabular{})
	assert.Contains(t, out, "email")

	out = format(t, FormatTable, summary{Rows: 4, Removed: 1})
	assert.Contains(t, out, "Removed Rows")
	assert.Contains(t, out, "4")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	out := format(t, FormatTable, map[string]int{"rows": 2})
	assert.JSONEq(t, `{"rows": 2}`, out)
}

func TestJSONAndYAML(t *testing.T) {
	data := summary{Rows: 4, Removed: 1}
	assert.JSONEq(t, `{"rows": 4, "removed_rows": 1}`, format(t, FormatJSON, data))
	assert.Contains(t, format(t, FormatYAML, map[string]int{"rows": 4}), "rows: 4")
}

func TestMarkdownFormatter(t *testing.T) {
	assert.Equal(t, "## custom\n", format(t, FormatMarkdown, document{}))

	out := format(t, FormatMarkdown, tabular{})
	assert.Contains(t, out, "| Key")
	assert.Contains(t, out, "email")

	out = format(t, FormatMarkdown, map[string]int{"rows": 2})
	assert.Contains(t, out, "```json")
	assert.Contains(t, out, `"rows": 2`)
}

func TestResult(t *testing.T) {
	rows := table.Data{Headers: []string{"Rows"}, Rows: [][]string{{"7"}}}
	raw := map[string]int{"rows": 7}

	var buf bytes.Buffer
	require.NoError(t, Result(&buf, "json", rows, raw))
	assert.JSONEq(t, `{"rows": 7}`, buf.String())

	buf.Reset()
	require.NoError(t, Result(&buf, "markdown", rows, raw))
	assert.Contains(t, buf.String(), "| Rows")
}
