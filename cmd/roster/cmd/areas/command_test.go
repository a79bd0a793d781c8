package areas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/roster/internal/cmd/application"
	"github.com/agentstation/roster/internal/cmd/cmdutil"
	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store/memory"
)

func setup() (*application.Mock, *memory.Store) {
	master := memory.New("master", records.FromMatrix("master",
		[]string{
			"Nombre completo",
			constants.AreaColumnPrefix + ": Educación",
			constants.AreaColumnPrefix + ": Salud",
			constants.AreasListColumn,
			constants.AreasCountColumn,
		},
		[][]string{
			{"Ana", "Sí", "", "Educación; Salud", "2"},
			{"Luis", "", "Salud", "Salud", "1"},
		}))
	return (&application.Mock{}).WithMemoryStores(map[string]*memory.Store{"master.csv": master}), master
}

func TestAreasDryRun(t *testing.T) {
	app, master := setup()

	res, err := Run(context.Background(), app, &Flags{MasterFlags: &cmdutil.MasterFlags{Path: "master.csv"}})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, 2, res.Columns)
	assert.Equal(t, 1, res.Changed)
	assert.Equal(t, 1, res.Suspicious)

	ds, err := master.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Educación; Salud", ds.Rows[0].Get(constants.AreasListColumn).Text())
}

func TestAreasApply(t *testing.T) {
	app, master := setup()

	res, err := Run(context.Background(), app, &Flags{MasterFlags: &cmdutil.MasterFlags{Path: "master.csv"}, Apply: true})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "memory:master@1", res.Backup)

	ds, err := master.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Educación", ds.Rows[0].Get(constants.AreasListColumn).Text())
	assert.Equal(t, "1", ds.Rows[0].Get(constants.AreasCountColumn).Text())
}

func TestAreasNoBackup(t *testing.T) {
	app, master := setup()

	_, err := Run(context.Background(), app, &Flags{
		MasterFlags: &cmdutil.MasterFlags{Path: "master.csv", NoBackup: true},
		Apply:       true,
	})
	require.NoError(t, err)
	assert.Empty(t, master.Backups())
}
