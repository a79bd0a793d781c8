package merge

import (
	"fmt"
	"io"
	"strconv"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/roster/pkg/identity"
	"github.com/agentstation/roster/pkg/reconciler"
)

// RowChange groups the field writes applied to one master row.
type RowChange struct {
	Row      int                 `json:"row" yaml:"row"`
	Incoming int                 `json:"incoming" yaml:"incoming"`
	Key      identity.KeyKind    `json:"key" yaml:"key"`
	Changes  []reconciler.Change `json:"changes" yaml:"changes"`
}

// Report summarises a merge pass.
// IncomingTotal always equals NewCount + DuplicateCount.
type Report struct {
	IncomingTotal  int                      `json:"incoming_total" yaml:"incoming_total"`
	NewCount       int                      `json:"new_count" yaml:"new_count"`
	DuplicateCount int                      `json:"duplicate_count" yaml:"duplicate_count"`
	UpdatedCount   int                      `json:"updated_count" yaml:"updated_count"`
	MatchesByKey   map[identity.KeyKind]int `json:"matches_by_key" yaml:"matches_by_key"`
	Ambiguous      int                      `json:"ambiguous" yaml:"ambiguous"`
	Warnings       []string                 `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Changes        []RowChange              `json:"changes,omitempty" yaml:"changes,omitempty"`
	StartedAt      time.Time                `json:"started_at" yaml:"started_at"`
	Duration       time.Duration            `json:"duration" yaml:"duration"`
}

// HasChanges reports whether the merge added or modified any row.
func (r *Report) HasChanges() bool {
	return r.NewCount > 0 || r.UpdatedCount > 0
}

// Summary returns a one-line description of the merge.
func (r *Report) Summary() string {
	s := fmt.Sprintf("%d incoming: %d new, %d duplicate, %d updated",
		r.IncomingTotal, r.NewCount, r.DuplicateCount, r.UpdatedCount)
	if r.Ambiguous > 0 {
		s += fmt.Sprintf(" (%d ambiguous)", r.Ambiguous)
	}
	return s
}

// Table returns the report as metric rows.
func (r *Report) Table() (headers []string, rows [][]string) {
	headers = []string{"Metric", "Value"}
	rows = [][]string{
		{"Incoming", strconv.Itoa(r.IncomingTotal)},
		{"New", strconv.Itoa(r.NewCount)},
		{"Duplicate", strconv.Itoa(r.DuplicateCount)},
		{"Updated", strconv.Itoa(r.UpdatedCount)},
		{"Ambiguous", strconv.Itoa(r.Ambiguous)},
	}
	for _, kind := range identity.Priority {
		if n := r.MatchesByKey[kind]; n > 0 {
			rows = append(rows, []string{"Matched by " + string(kind), strconv.Itoa(n)})
		}
	}
	return headers, rows
}

// ChangeTable returns one row per field write.
func (r *Report) ChangeTable() (headers []string, rows [][]string) {
	headers = []string{"Row", "Incoming", "Key", "Column", "Old", "New", "Rule"}
	for _, rc := range r.Changes {
		for _, c := range rc.Changes {
			rows = append(rows, []string{
				strconv.Itoa(rc.Row),
				strconv.Itoa(rc.Incoming),
				string(rc.Key),
				c.Column,
				c.Old.Text(),
				c.New.Text(),
				string(c.Rule),
			})
		}
	}
	return headers, rows
}

// Markdown writes the report as a markdown document.
func (r *Report) Markdown(w io.Writer) error {
	doc := md.NewMarkdown(w).
		H2("Merge report").
		PlainText(r.Summary()).
		LF()

	headers, rows := r.Table()
	doc.Table(md.TableSet{Header: headers, Rows: rows})

	if len(r.Changes) > 0 {
		headers, rows := r.ChangeTable()
		doc.H3("Changes").Table(md.TableSet{Header: headers, Rows: rows})
	}
	if len(r.Warnings) > 0 {
		doc.H3("Warnings").BulletList(r.Warnings...)
	}
	return doc.Build()
}
