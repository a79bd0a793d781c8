// Package datastore opens a store backend for a dataset location.
package datastore

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store"
	"github.com/agentstation/roster/pkg/store/csvfile"
	"github.com/agentstation/roster/pkg/store/sqlite"
	"github.com/agentstation/roster/pkg/store/xlsx"
)

// Format identifies a backend.
type Format string

// Supported formats.
const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Detect maps a file extension to its format.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w %q for %s", errors.ErrUnsupportedFormat, filepath.Ext(path), path)
	}
}

// Open returns the store for path, chosen by extension.
func Open(path string, opts ...store.Option) (store.Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &errors.ValidationError{Field: "path", Message: "dataset path is required"}
	}
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return xlsx.New(path, opts...), nil
	case FormatSQLite:
		return sqlite.New(path, opts...), nil
	default:
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			opts = append([]store.Option{store.WithDelimiter('\t')}, opts...)
		}
		return csvfile.New(path, opts...), nil
	}
}

// Close releases resources held by s when it has any.
func Close(s store.Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Read parses an uploaded dataset named name from r. SQLite files cannot be
// streamed and are rejected as unsupported.
func Read(name string, r io.Reader, sheet string) (*records.Dataset, error) {
	format, err := Detect(name)
	if err != nil {
		return nil, err
	}
	var ds *records.Dataset
	switch format {
	case FormatCSV:
		var delimiter rune
		if strings.EqualFold(filepath.Ext(name), ".tsv") {
			delimiter = '\t'
		}
		ds, err = csvfile.Read(r, delimiter)
	case FormatXLSX:
		ds, _, err = xlsx.Read(r, sheet)
	default:
		return nil, fmt.Errorf("%w %q for upload %s", errors.ErrUnsupportedFormat, format, name)
	}
	if err != nil {
		return nil, errors.WrapParse(string(format), name, err)
	}
	ds.Name = name
	return ds, nil
}
