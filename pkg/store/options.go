package store

import (
	"time"

	"github.com/agentstation/roster/pkg/constants"
)

// Options are shared by the store backends. Each backend reads the fields
// that apply to it.
type Options struct {
	// Sheet is the workbook sheet to read and write. When loading, an empty
	// or missing sheet falls back to the first sheet.
	Sheet string
	// Table is the SQLite table name.
	Table string
	// Delimiter forces the CSV delimiter. Zero sniffs it from the header.
	Delimiter rune
	// Now is the clock used to name backups.
	Now func() time.Time
}

// Option configures Options.
type Option func(*Options)

// NewOptions returns the defaults with opts applied.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Sheet: constants.DefaultSheetName,
		Table: constants.DefaultTableName,
		Now:   time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSheet sets the workbook sheet.
func WithSheet(sheet string) Option {
	return func(o *Options) {
		if sheet != "" {
			o.Sheet = sheet
		}
	}
}

// WithTable sets the SQLite table.
func WithTable(table string) Option {
	return func(o *Options) {
		if table != "" {
			o.Table = table
		}
	}
}

// WithDelimiter forces the CSV delimiter.
func WithDelimiter(d rune) Option {
	return func(o *Options) {
		o.Delimiter = d
	}
}

// WithClock sets the clock used for backup names.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Now = now
		}
	}
}
