package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cols  []string
	}{
		{"comma", "a,b\n1,2\n", []string{"a", "b"}},
		{"semicolon", "a;b\n1;2\n", []string{"a", "b"}},
		{"tab", "a\tb\n1\t2\n", []string{"a", "b"}},
		{"bom and duplicate headers", "\ufeffa,a,\n1,2,3\n", []string{"a", "a.1", "Unnamed: 2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Read(strings.NewReader(tt.input), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.cols, ds.Columns)
			require.Equal(t, 1, ds.Len())
			assert.Equal(t, "1", ds.Rows[0].Get(tt.cols[0]).Text())
		})
	}
}

func TestReadEmptyCellsAreNull(t *testing.T) {
	ds, err := Read(strings.NewReader("a,b\n,x\n\n,,\n"), 0)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.True(t, ds.Rows[0].Get("a").IsNull())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")
	s := New(path)

	ds := records.New("master", "Nombre completo", "Notas")
	ds.AppendValues(records.String("Ana Ruiz"), records.String("dice \"hola\", adiós"))
	ds.AppendValues(records.String("Luis"), records.Null())

	require.NoError(t, s.Save(context.Background(), ds))
	got, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ds.Columns, got.Columns)
	assert.Equal(t, ds.Matrix(), got.Matrix())
	assert.Equal(t, path, got.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "master.csv")
	clock := func() time.Time { return time.Date(2024, 3, 9, 8, 7, 6, 0, time.UTC) }
	s := New(path, store.WithClock(clock))

	name, err := s.Backup(context.Background())
	require.NoError(t, err)
	assert.Empty(t, name, "nothing to back up yet")

	require.NoError(t, os.WriteFile(path, []byte("a\n1\n"), 0o644))
	name, err = s.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "master-20240309-080706.csv"), name)

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(data))
}
