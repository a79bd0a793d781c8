// Package xlsx stores a dataset in one sheet of an Excel workbook.
package xlsx

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/logging"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store"
)

const backend = "xlsx"

// Store reads and writes a workbook sheet. Saving writes a fresh workbook
// holding only that sheet.
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

// Sheet returns the sheet written on save.
func (s *Store) Sheet() string { return s.opts.Sheet }

// Load implements store.Source. The configured sheet is read when present,
// otherwise the first sheet.
func (s *Store) Load(ctx context.Context) (*records.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "dataset", ID: s.path}
		}
		return nil, errors.WrapIO("read", s.path, err)
	}
	defer func() { _ = f.Close() }()

	ds, sheet, err := Read(f, s.opts.Sheet)
	if err != nil {
		return nil, errors.WrapParse(backend, s.path, err)
	}
	ds.Name = s.path

	logging.FromContext(ctx).Debug().
		Str("path", s.path).
		Str("sheet", sheet).
		Int("rows", ds.Len()).
		Msg("workbook loaded")
	return ds, nil
}

// Save implements store.Sink.
func (s *Store) Save(_ context.Context, ds *records.Dataset) error {
	err := store.WriteFileAtomic(s.path, func(w io.Writer) error {
		return Write(w, s.opts.Sheet, ds)
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

// Read loads sheet from a workbook, falling back to the first sheet. It
// returns the name of the sheet actually read. Cells keep their type:
// date-formatted numbers become dates, other numbers stay numeric and
// everything else is text.
func Read(r io.Reader, sheet string) (*records.Dataset, string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	sheet = pickSheet(f.GetSheetList(), sheet)
	if sheet == "" {
		return records.New(""), "", nil
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, sheet, err
	}
	if len(rows) == 0 {
		return records.New(""), sheet, nil
	}

	ds := records.New("", records.UniqueHeaders(rows[0])...)
	cells := cellReader{f: f, sheet: sheet, dates: make(map[int]bool)}
	for r, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		values := make([]records.Value, len(row))
		for c, raw := range row {
			if values[c], err = cells.value(c+1, r+2, raw); err != nil {
				return nil, sheet, err
			}
		}
		ds.AppendValues(values...)
	}
	return ds, sheet, nil
}

// cellReader types raw cell values using the cell type and number format.
type cellReader struct {
	f     *excelize.File
	sheet string
	// dates caches whether a style id formats its cell as a date.
	dates map[int]bool
}

func (cr *cellReader) value(col, row int, raw string) (records.Value, error) {
	if raw == "" {
		return records.Null(), nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return records.Null(), err
	}
	typ, err := cr.f.GetCellType(cr.sheet, cell)
	if err != nil {
		return records.Null(), err
	}
	switch typ {
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return records.Date(t), nil
		}
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeFormula:
	default:
		return records.String(raw), nil
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return records.String(raw), nil
	}
	isDate, err := cr.isDate(cell)
	if err != nil {
		return records.Null(), err
	}
	if isDate {
		t, err := excelize.ExcelDateToTime(n, false)
		if err != nil {
			return records.Number(n), nil
		}
		return records.Date(t), nil
	}
	return records.Number(n), nil
}

func (cr *cellReader) isDate(cell string) (bool, error) {
	id, err := cr.f.GetCellStyle(cr.sheet, cell)
	if err != nil || id == 0 {
		return false, err
	}
	if d, ok := cr.dates[id]; ok {
		return d, nil
	}
	style, err := cr.f.GetStyle(id)
	if err != nil {
		return false, err
	}
	d := false
	if style.CustomNumFmt != nil {
		d = IsDateFormat(*style.CustomNumFmt)
	} else {
		d = isBuiltinDateFormat(style.NumFmt)
	}
	cr.dates[id] = d
	return d, nil
}

// isBuiltinDateFormat reports whether id is one of Excel's built-in date
// or time number formats.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// IsDateFormat reports whether a custom number format renders a date or
// time. Quoted literals, bracketed sections and escaped characters are
// ignored, and only the first section counts.
func IsDateFormat(format string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\':
			i++
		case c == ';':
			i = len(format)
		default:
			b.WriteByte(c)
		}
	}
	return strings.ContainsAny(strings.ToLower(b.String()), "ydmhs")
}

// Sheets is one named sheet of a multi-sheet workbook.
type Sheets struct {
	Name string
	Data *records.Dataset
}

// Write renders ds as a single-sheet workbook.
func Write(w io.Writer, sheet string, ds *records.Dataset) error {
	return WriteSheets(w, Sheets{Name: sheet, Data: ds})
}

// WriteSheets renders a workbook with one sheet per entry, in order.
func WriteSheets(w io.Writer, sheets ...Sheets) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const initial = "Sheet1"
	for i, sh := range sheets {
		name := sh.Name
		if name == "" {
			name = initial
		}
		if i == 0 {
			if name != initial {
				if err := f.SetSheetName(initial, name); err != nil {
					return err
				}
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeSheet(f, name, sh.Data); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, ds *records.Dataset) error {
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]any, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, rec := range ds.Rows {
		row := make([]any, len(ds.Columns))
		for i, c := range ds.Columns {
			row[i] = cellValue(rec.Get(c), dateStyle)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// dateFormat is the number format of written date cells.
var dateFormat = "yyyy-mm-dd"

// cellValue keeps numbers numeric and writes dates as date cells.
func cellValue(v records.Value, dateStyle int) any {
	switch v.Kind() {
	case records.KindNull:
		return nil
	case records.KindNumber:
		n, _ := v.Num()
		return n
	case records.KindDate:
		t, _ := v.Time()
		return excelize.Cell{StyleID: dateStyle, Value: t}
	default:
		return v.Text()
	}
}

func pickSheet(list []string, want string) string {
	for _, s := range list {
		if s == want {
			return s
		}
	}
	if len(list) > 0 {
		return list[0]
	}
	return ""
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
