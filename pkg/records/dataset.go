// Package records defines the tabular shape shared by every roster component:
// a Dataset is an authoritative ordered schema plus an ordered list of Records.
package records

import (
	"fmt"
	"strings"
)

// Dataset is an ordered table of records sharing one schema.
type Dataset struct {
	// Name identifies the dataset in logs and warnings.
	Name    string
	Columns []string
	Rows    []*Record
}

// New creates an empty dataset with the given columns.
func New(name string, columns ...string) *Dataset {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Dataset{Name: name, Columns: cols}
}

// FromMatrix builds a dataset from a header row and string cells.
// Empty cells become null. Short rows are padded with null.
func FromMatrix(name string, header []string, rows [][]string) *Dataset {
	ds := New(name, UniqueHeaders(header)...)
	for _, row := range rows {
		values := make([]Value, len(row))
		for i, cell := range row {
			if cell != "" {
				values[i] = String(cell)
			}
		}
		ds.AppendValues(values...)
	}
	return ds
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ColumnIndex returns the position of column name, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether name is part of the schema.
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// AddColumn appends name to the schema and sets it to null on every row.
// It returns false when the column already exists.
func (d *Dataset) AddColumn(name string) bool {
	if d.HasColumn(name) {
		return false
	}
	d.Columns = append(d.Columns, name)
	for _, r := range d.Rows {
		if !r.Has(name) {
			r.Set(name, Null())
		}
	}
	return true
}

// Reshape returns a copy of rec holding exactly the dataset columns, in
// schema order. Columns missing from rec are null, extra fields are dropped.
func (d *Dataset) Reshape(rec *Record) *Record {
	out := NewRecord()
	for _, c := range d.Columns {
		out.Set(c, rec.Get(c))
	}
	return out
}

// Append reshapes rec to the schema and adds it as the last row.
func (d *Dataset) Append(rec *Record) *Record {
	row := d.Reshape(rec)
	d.Rows = append(d.Rows, row)
	return row
}

// AppendValues adds a row from positional values.
func (d *Dataset) AppendValues(values ...Value) *Record {
	row := NewRecord()
	for i, c := range d.Columns {
		if i < len(values) {
			row.Set(c, values[i])
		} else {
			row.Set(c, Null())
		}
	}
	d.Rows = append(d.Rows, row)
	return row
}

// Column returns every value of column name in row order.
func (d *Dataset) Column(name string) []Value {
	out := make([]Value, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.Get(name)
	}
	return out
}

// Matrix returns the dataset as display text, one slice per row.
func (d *Dataset) Matrix() [][]string {
	out := make([][]string, len(d.Rows))
	for i, r := range d.Rows {
		row := make([]string, len(d.Columns))
		for j, c := range d.Columns {
			row[j] = r.Get(c).Text()
		}
		out[i] = row
	}
	return out
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	c := New(d.Name, d.Columns...)
	c.Rows = make([]*Record, len(d.Rows))
	for i, r := range d.Rows {
		c.Rows[i] = r.Clone()
	}
	return c
}

// Subset returns a dataset sharing d's schema and holding the given rows.
func (d *Dataset) Subset(rows []*Record) *Dataset {
	c := New(d.Name, d.Columns...)
	c.Rows = rows
	return c
}

// Validate checks that the schema has no empty or repeated column names.
func (d *Dataset) Validate() error {
	seen := make(map[string]bool, len(d.Columns))
	for i, c := range d.Columns {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("column %d has an empty name", i)
		}
		if seen[c] {
			return fmt.Errorf("column %q appears more than once", c)
		}
		seen[c] = true
	}
	return nil
}

// UniqueHeaders makes header names usable as a schema: blank headers become
// "Unnamed: N" and repeated headers get a ".1", ".2" suffix.
func UniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}
