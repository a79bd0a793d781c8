// Package csvfile stores a dataset as a CSV file with a header row.
package csvfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/logging"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store"
)

const backend = "csv"

// Store reads and writes a CSV file.
type Store struct {
	path string
	opts *store.Options
}

var _ store.Store = (*Store)(nil)

// New returns a Store for path.
func New(path string, opts ...store.Option) *Store {
	return &Store{path: path, opts: store.NewOptions(opts...)}
}

// Location implements store.Store.
func (s *Store) Location() string { return s.path }

// Load implements store.Source.
func (s *Store) Load(ctx context.Context) (*records.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "dataset", ID: s.path}
		}
		return nil, errors.WrapIO("read", s.path, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Read(f, s.opts.Delimiter)
	if err != nil {
		return nil, errors.WrapParse(backend, s.path, err)
	}
	ds.Name = s.path

	logging.FromContext(ctx).Debug().
		Str("path", s.path).
		Int("rows", ds.Len()).
		Int("columns", len(ds.Columns)).
		Msg("csv loaded")
	return ds, nil
}

// Save implements store.Sink.
func (s *Store) Save(_ context.Context, ds *records.Dataset) error {
	err := store.WriteFileAtomic(s.path, func(w io.Writer) error {
		return Write(w, ds, s.opts.Delimiter)
	})
	return errors.WrapStore(backend, "save", s.path, err)
}

// Backup implements store.Store.
func (s *Store) Backup(_ context.Context) (string, error) {
	name, err := store.BackupFile(s.path, s.opts.Now())
	if err != nil {
		return "", errors.WrapStore(backend, "backup", s.path, err)
	}
	return name, nil
}

// Read parses CSV from r. A zero delimiter is sniffed from the header line.
// Empty cells load as null.
func Read(r io.Reader, delimiter rune) (*records.Dataset, error) {
	br := bufio.NewReader(r)
	if delimiter == 0 {
		delimiter = sniff(br)
	}

	cr := csv.NewReader(br)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return records.New(""), nil
	}
	if err != nil {
		return nil, err
	}
	header = records.UniqueHeaders(header)

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if blankRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	return records.FromMatrix("", header, rows), nil
}

// Write renders ds as CSV with a header row.
func Write(w io.Writer, ds *records.Dataset, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.Write(ds.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(ds.Matrix()); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// sniff picks the most frequent of comma, semicolon and tab in the first
// line, defaulting to comma.
func sniff(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		peek = peek[:i]
	}
	best, bestCount := ',', bytes.Count(peek, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(peek, []byte{byte(d)}); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
