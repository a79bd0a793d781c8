package duplicates

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/roster/internal/cmd/application"
	"github.com/agentstation/roster/internal/cmd/cmdutil"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/identity"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store/memory"
)

func newApp() *application.Mock {
	return (&application.Mock{}).WithMemoryStores(map[string]*memory.Store{
		"master.csv": memory.New("master", records.FromMatrix("master",
			[]string{"Nombre completo", "Correo electrónico", "Teléfono"},
			[][]string{
				{"Ana Ruiz", "ana@x.org", ""},
				{"Luis Paz", "ANA@x.org", "987654321"},
				{"Eva Sol", "", "987 654 321"},
			})),
	})
}

func TestDuplicatesCommand(t *testing.T) {
	cmd := NewCommand(&application.Mock{
		StoreFunc:        newApp().StoreFunc,
		OutputFormatFunc: func() string { return "table" },
	})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--master", "master.csv"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	out := stdout.String()
	assert.Contains(t, out, "Email")
	assert.Contains(t, out, "Teléfono")
}

func TestDuplicatesRun(t *testing.T) {
	export := filepath.Join(t.TempDir(), "duplicados.xlsx")

	rep, err := Run(context.Background(), newApp(), &Flags{
		MasterFlags: &cmdutil.MasterFlags{Path: "master.csv"},
		Export:      export,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Total)

	counts := map[identity.KeyKind]int{}
	for _, k := range rep.Kinds {
		counts[k.Kind] = len(k.Groups)
	}
	assert.Equal(t, 1, counts[identity.KeyEmail])
	assert.Equal(t, 1, counts[identity.KeyPhone])
	assert.Zero(t, counts[identity.KeyName])

	f, err := excelize.OpenFile(export)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, "Resumen", f.GetSheetList()[0])
}

func TestDuplicatesErrors(t *testing.T) {
	_, err := Run(context.Background(), newApp(), &Flags{
		MasterFlags: &cmdutil.MasterFlags{Path: "master.csv"},
		Export:      "groups.csv",
	})
	assert.True(t, errors.IsUnsupportedFormat(err))

	_, err = Run(context.Background(), newApp(), &Flags{MasterFlags: &cmdutil.MasterFlags{}})
	assert.True(t, errors.IsValidationError(err))

	_, err = Run(context.Background(), newApp(), &Flags{MasterFlags: &cmdutil.MasterFlags{Path: "nope.csv"}})
	assert.True(t, errors.IsNotFound(err))
}
