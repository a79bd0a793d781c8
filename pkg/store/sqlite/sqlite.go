// Package sqlite stores a dataset as a table in a SQLite database.
//
// The table keeps the dataset schema in column order plus a hidden row
// ordinal. Values keep their SQLite storage class: text, real or null.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/logging"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store"
)

const (
	backend   = "sqlite"
	rowColumn = "__roster_row"
)

// Store reads and writes one table.
type Store struct {
	path string
	opts *store.Options

	mu sync.Mutex
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New returns a Store for the database at path. The database is opened
// on first use.
func New(path string, opts ...store.Option) *Store {
	return &Store{path: path, opts: store.NewOptions(opts...)}
}

// Location implements store.Store.
func (s *Store) Location() string {
	return s.path + "#" + s.opts.Table
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", filepath.Dir(s.path), err)
	}
	dsn := "file:" + s.path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapStore(backend, "open", s.path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.WrapStore(backend, "open", s.path, err)
	}
	s.db = db
	return db, nil
}

// Load implements store.Source.
func (s *Store) Load(ctx context.Context) (*records.Dataset, error) {
	if !store.FileExists(s.path) {
		return nil, &errors.NotFoundError{Resource: "dataset", ID: s.path}
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var n int
	err = db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", s.opts.Table).Scan(&n)
	if err != nil {
		return nil, errors.WrapStore(backend, "load", s.Location(), err)
	}
	if n == 0 {
		return nil, &errors.NotFoundError{Resource: "table", ID: s.opts.Table}
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s", quote(s.opts.Table), quote(rowColumn)))
	if err != nil {
		return nil, errors.WrapStore(backend, "load", s.Location(), err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.WrapStore(backend, "load", s.Location(), err)
	}
	var schema []string
	for _, c := range cols {
		if c != rowColumn {
			schema = append(schema, c)
		}
	}
	ds := records.New(s.path, schema...)

	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.WrapStore(backend, "load", s.Location(), err)
		}
		rec := records.NewRecord()
		for i, c := range cols {
			if c != rowColumn {
				rec.Set(c, records.Of(raw[i]))
			}
		}
		ds.Rows = append(ds.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStore(backend, "load", s.Location(), err)
	}

	logging.FromContext(ctx).Debug().
		Str("location", s.Location()).
		Int("rows", ds.Len()).
		Msg("table loaded")
	return ds, nil
}

// checkColumns rejects names SQLite would treat as the same column.
// Identifiers compare case-insensitively there, and the row ordinal is taken.
func checkColumns(cols []string) error {
	seen := map[string]string{strings.ToLower(rowColumn): rowColumn}
	for _, c := range cols {
		k := strings.ToLower(c)
		if prev, ok := seen[k]; ok {
			return fmt.Errorf("column %q collides with %q in a SQLite table", c, prev)
		}
		seen[k] = c
	}
	return nil
}

// Save implements store.Sink. The table is replaced inside one
// transaction, so readers see either the old rows or the new ones.
func (s *Store) Save(ctx context.Context, ds *records.Dataset) (err error) {
	if err := ds.Validate(); err != nil {
		return errors.WrapValidation("columns", err)
	}
	if err := checkColumns(ds.Columns); err != nil {
		return errors.WrapValidation("columns", err)
	}
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return errors.WrapStore(backend, "save", s.Location(), err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	table := quote(s.opts.Table)
	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return errors.WrapStore(backend, "save", s.Location(), err)
	}

	defs := []string{quote(rowColumn) + " INTEGER PRIMARY KEY"}
	names := []string{quote(rowColumn)}
	marks := []string{"?"}
	for _, c := range ds.Columns {
		defs = append(defs, quote(c))
		names = append(names, quote(c))
		marks = append(marks, "?")
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return errors.WrapStore(backend, "save", s.Location(), err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return errors.WrapStore(backend, "save", s.Location(), err)
	}
	defer func() { _ = stmt.Close() }()

	args := make([]any, len(ds.Columns)+1)
	for i, rec := range ds.Rows {
		args[0] = i
		for j, c := range ds.Columns {
			args[j+1] = sqlValue(rec.Get(c))
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return errors.WrapStore(backend, "save", s.Location(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.WrapStore(backend, "save", s.Location(), err)
	}
	return nil
}

// Backup implements store.Store using VACUUM INTO, which produces a
// consistent copy even while the database is open.
func (s *Store) Backup(ctx context.Context) (string, error) {
	if !store.FileExists(s.path) {
		return "", nil
	}
	db, err := s.conn()
	if err != nil {
		return "", err
	}
	name := store.BackupName(s.path, s.opts.Now())
	_ = os.Remove(name)
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", name); err != nil {
		return "", errors.WrapStore(backend, "backup", s.path, err)
	}
	return name, nil
}

func sqlValue(v records.Value) any {
	switch v.Kind() {
	case records.KindNull:
		return nil
	case records.KindNumber:
		n, _ := v.Num()
		return n
	default:
		return v.Text()
	}
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
