package normalize

import (
	"strings"

	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/records"
)

// selectedTokens are the cell values that mark a checkbox column as ticked.
var selectedTokens = map[string]bool{
	"si":       true,
	"sí":       true,
	"yes":      true,
	"true":     true,
	"1":        true,
	"on":       true,
	"checked":  true,
	"selected": true,
	"x":        true,
	"✓":        true,
}

// AreaLabel extracts the label of an area column: the text after the first
// colon, whitespace collapsed and double quotes removed.
func AreaLabel(header string) string {
	label := header
	if _, after, ok := strings.Cut(header, ":"); ok {
		label = after
	}
	return strings.ReplaceAll(CollapseSpace(label), `"`, "")
}

// IsSelected reports whether cell ticks the area called label. Only the
// affirmative tokens or the label itself count; any other text does not.
func IsSelected(cell records.Value, label string) bool {
	s, ok := text(cell)
	if !ok {
		return false
	}
	s = strings.ToLower(CollapseSpace(s))
	if selectedTokens[s] {
		return true
	}
	return label != "" && s == strings.ToLower(CollapseSpace(label))
}

// AreaColumn binds a checkbox column to its label.
type AreaColumn struct {
	Column string
	Label  string
}

// AreaCatalogue is the set of interest-area columns found in a schema.
type AreaCatalogue struct {
	columns []AreaColumn
	labels  []string
}

// NewAreaCatalogue collects the columns of schema whose header contains
// prefix. An empty prefix selects constants.AreaColumnPrefix.
func NewAreaCatalogue(schema []string, prefix string) *AreaCatalogue {
	if prefix == "" {
		prefix = constants.AreaColumnPrefix
	}
	c := &AreaCatalogue{}
	seen := make(map[string]bool)
	for _, h := range schema {
		if !strings.Contains(h, prefix) {
			continue
		}
		label := AreaLabel(h)
		if label == "" {
			continue
		}
		c.columns = append(c.columns, AreaColumn{Column: h, Label: label})
		if !seen[label] {
			seen[label] = true
			c.labels = append(c.labels, label)
		}
	}
	return c
}

// Columns returns the area columns in schema order.
func (c *AreaCatalogue) Columns() []AreaColumn {
	return append([]AreaColumn(nil), c.columns...)
}

// Labels returns the distinct labels in schema order.
func (c *AreaCatalogue) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Size is the number of distinct labels.
func (c *AreaCatalogue) Size() int { return len(c.labels) }

// Select returns the areas ticked in rec, in catalogue order. A label with
// several columns is selected when any of them is ticked.
func (c *AreaCatalogue) Select(rec *records.Record) AreaSelection {
	ticked := make(map[string]bool)
	for _, col := range c.columns {
		if !ticked[col.Label] && IsSelected(rec.Get(col.Column), col.Label) {
			ticked[col.Label] = true
		}
	}
	var sel AreaSelection
	for _, label := range c.labels {
		if ticked[label] {
			sel = append(sel, label)
		}
	}
	return sel
}

// AreaSelection is an ordered list of selected area labels.
type AreaSelection []string

// ParseAreaList splits a stored list on ";" and drops empty items.
func ParseAreaList(v records.Value) AreaSelection {
	s, ok := text(v)
	if !ok {
		return nil
	}
	var sel AreaSelection
	for _, item := range strings.Split(s, ";") {
		if item = strings.TrimSpace(item); item != "" {
			sel = append(sel, item)
		}
	}
	return sel
}

// Count is the number of selected areas.
func (s AreaSelection) Count() int { return len(s) }

// List joins the selection with constants.AreasSeparator.
func (s AreaSelection) List() string {
	return strings.Join(s, constants.AreasSeparator)
}

// Contains reports whether label is selected.
func (s AreaSelection) Contains(label string) bool {
	for _, l := range s {
		if l == label {
			return true
		}
	}
	return false
}
