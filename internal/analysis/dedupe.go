package analysis

import (
	"github.com/agentstation/roster/pkg/columns"
	"github.com/agentstation/roster/pkg/identity"
	"github.com/agentstation/roster/pkg/records"
)

// DedupeResult counts the rows before and after DedupeByName.
type DedupeResult struct {
	Before  int `json:"before" yaml:"before"`
	After   int `json:"after" yaml:"after"`
	Removed int `json:"removed" yaml:"removed"`
}

// DedupeByName keeps, for every normalized full name, the row with the most
// non-blank fields. Ties keep the first occurrence. Rows without a name are
// always kept and row order is preserved. ds is not modified.
func DedupeByName(ds *records.Dataset, resolver *columns.Resolver) (*records.Dataset, DedupeResult) {
	if resolver == nil {
		resolver = columns.DefaultResolver()
	}
	ex := identity.NewExtractor(resolver.Resolve(ds.Columns))

	best := make(map[string]int)
	keys := make([]string, ds.Len())
	named := make([]bool, ds.Len())
	for pos, rec := range ds.Rows {
		key, ok := ex.Keys(rec).Key(identity.KeyName)
		if !ok {
			continue
		}
		keys[pos], named[pos] = key, true
		cur, seen := best[key]
		if !seen || rec.NonBlankCount() > ds.Rows[cur].NonBlankCount() {
			best[key] = pos
		}
	}

	out := records.New(ds.Name, ds.Columns...)
	for pos, rec := range ds.Rows {
		if named[pos] && best[keys[pos]] != pos {
			continue
		}
		out.Rows = append(out.Rows, rec.Clone())
	}

	return out, DedupeResult{
		Before:  ds.Len(),
		After:   out.Len(),
		Removed: ds.Len() - out.Len(),
	}
}
