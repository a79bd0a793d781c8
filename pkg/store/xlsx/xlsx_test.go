package xlsx

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store"
)

func sample() *records.Dataset {
	ds := records.New("master", "Nombre completo", constants.AreasCountColumn, "Notas")
	ds.AppendValues(records.String("Ana Ruiz"), records.Int(3), records.Null())
	ds.AppendValues(records.String("Luis Soto"), records.Int(0), records.String("ok"))
	return ds
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.xlsx")
	s := New(path)
	assert.Equal(t, constants.DefaultSheetName, s.Sheet())

	require.NoError(t, s.Save(context.Background(), sample()))
	got, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sample().Columns, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "Ana Ruiz", got.Rows[0].Get("Nombre completo").Text())
	assert.Equal(t, "3", got.Rows[0].Get(constants.AreasCountColumn).Text())
	assert.True(t, got.Rows[0].Get("Notas").IsNull())
	assert.Equal(t, "ok", got.Rows[1].Get("Notas").Text())
}

func TestReadFallsBackToFirstSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "Datos", sample()))

	ds, sheet, err := Read(bytes.NewReader(buf.Bytes()), "Merged")
	require.NoError(t, err)
	assert.Equal(t, "Datos", sheet)
	assert.Equal(t, 2, ds.Len())
}

func TestWriteSheets(t *testing.T) {
	var buf bytes.Buffer
	summary := records.New("", "Clave")
	summary.AppendValues(records.String("Email"))
	require.NoError(t, WriteSheets(&buf,
		Sheets{Name: "Resumen", Data: summary},
		Sheets{Name: "Duplicados Email", Data: sample()},
	))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Resumen", "Duplicados Email"}, f.GetSheetList())

	ds, _, err := Read(bytes.NewReader(buf.Bytes()), "Duplicados Email")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestBackupName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.xlsx")
	s := New(path, store.WithSheet("Hoja"))
	assert.Equal(t, "Hoja", s.Sheet())

	name, err := s.Backup(context.Background())
	require.NoError(t, err)
	assert.Empty(t, name)
}

// workbook builds a sheet with a name, a date of birth in the given number
// format, a numeric phone and a text ID.
func workbook(t *testing.T, style *excelize.Style, dobs ...time.Time) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Nombre completo", "Fecha de nacimiento", "Teléfono", "Identificación"}))
	id, err := f.NewStyle(style)
	require.NoError(t, err)
	for i, dob := range dobs {
		row := i + 2
		cell := func(col int) string {
			name, err := excelize.CoordinatesToCellName(col, row)
			require.NoError(t, err)
			return name
		}
		require.NoError(t, f.SetCellValue(sheet, cell(1), "Ana Ruiz"))
		require.NoError(t, f.SetCellValue(sheet, cell(2), dob))
		require.NoError(t, f.SetCellStyle(sheet, cell(2), cell(2), id))
		require.NoError(t, f.SetCellValue(sheet, cell(3), 987654321))
		require.NoError(t, f.SetCellValue(sheet, cell(4), "00123"))
	}

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadDateCells(t *testing.T) {
	custom := "dd/mm/yyyy"
	styles := map[string]*excelize.Style{
		"builtin mm-dd-yy": {NumFmt: 14},
		"builtin d-mmm-yy": {NumFmt: 15},
		"custom day first": {CustomNumFmt: &custom},
	}
	dobs := []time.Time{
		time.Date(1990, 3, 4, 0, 0, 0, 0, time.UTC),
		time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	for name, style := range styles {
		t.Run(name, func(t *testing.T) {
			ds, _, err := Read(bytes.NewReader(workbook(t, style, dobs...)), "")
			require.NoError(t, err)
			require.Equal(t, 2, ds.Len())

			for i, want := range []string{"1990-03-04", "1990-01-15"} {
				v := ds.Rows[i].Get("Fecha de nacimiento")
				assert.Equal(t, records.KindDate, v.Kind())
				dob, ok := normalize.DOB(v)
				require.True(t, ok)
				assert.Equal(t, want, dob.String())
			}

			phone := ds.Rows[0].Get("Teléfono")
			assert.Equal(t, records.KindNumber, phone.Kind())
			assert.Equal(t, "987654321", phone.Text())

			id := ds.Rows[0].Get("Identificación")
			assert.Equal(t, records.KindString, id.Kind())
			assert.Equal(t, "00123", id.Text())
		})
	}
}

func TestDatesRoundTrip(t *testing.T) {
	ds := records.New("master", "Nombre completo", "Fecha de nacimiento")
	ds.AppendValues(records.String("Ana Ruiz"), records.Date(time.Date(1990, 3, 4, 0, 0, 0, 0, time.UTC)))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, constants.DefaultSheetName, ds))
	got, _, err := Read(bytes.NewReader(buf.Bytes()), constants.DefaultSheetName)
	require.NoError(t, err)

	v := got.Rows[0].Get("Fecha de nacimiento")
	assert.Equal(t, records.KindDate, v.Kind())
	assert.Equal(t, "1990-03-04", v.Text())
}

func TestIsDateFormat(t *testing.T) {
	tests := map[string]bool{
		"yyyy-mm-dd":          true,
		"dd/mm/yyyy hh:mm":    true,
		"[h]:mm:ss":           true,
		"General":             false,
		"0.00":                false,
		`#,##0 "días"`:        false,
		"[$€-2] #,##0.00":     false,
		`0.00;[Red]-0.00;"d"`: false,
	}
	for format, want := range tests {
		assert.Equal(t, want, IsDateFormat(format), format)
	}
}
