package countries

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/roster/internal/cmd/application"
	"github.com/agentstation/roster/internal/cmd/cmdutil"
	"github.com/agentstation/roster/internal/config"
	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store/memory"
)

func setup() (*application.Mock, *memory.Store) {
	master := memory.New("master", records.FromMatrix("master",
		[]string{"Nombre completo", "País"},
		[][]string{
			{"Ana", "Peru"},
			{"Luis", "perú "},
			{"Eva", "Chile"},
			{"Sol", ""},
		}))
	app := (&application.Mock{}).WithMemoryStores(map[string]*memory.Store{"master.csv": master})
	return app, master
}

func TestCountriesReport(t *testing.T) {
	app, master := setup()

	res, err := Run(context.Background(), app, &Flags{MasterFlags: &cmdutil.MasterFlags{Path: "master.csv"}, Top: DefaultTop})
	require.NoError(t, err)

	assert.False(t, res.Applied)
	assert.Equal(t, "País", res.Report.Column)
	assert.Equal(t, 1, res.Report.Blank)
	assert.Equal(t, 2, res.Report.UniqueFolded)
	require.NotEmpty(t, res.Report.Groups)
	assert.Equal(t, "Perú", res.Report.Groups[0].Canonical)
	assert.Equal(t, 2, res.Report.Groups[0].Count)
	assert.Empty(t, master.Backups())
}

func TestCountriesApply(t *testing.T) {
	app, master := setup()
	app.ConfigFunc = func() *config.Config {
		cfg := config.Default()
		cfg.Countries = map[string]string{"Chile": "República de Chile"}
		return cfg
	}

	cmd := NewCommand(app)
	var stderr bytes.Buffer
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"-m", "master.csv", "--apply"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, stderr.String(), "Updated 3 cells")

	ds, err := master.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ds.HasColumn(constants.CountryColumn))
	assert.Equal(t, "Perú", ds.Rows[1].Get(constants.CountryColumn).Text())
	assert.Equal(t, "República de Chile", ds.Rows[2].Get(constants.CountryColumn).Text())
	assert.Len(t, master.Backups(), 1)
}

func TestCountriesMissingColumn(t *testing.T) {
	app := (&application.Mock{}).WithMemoryStores(map[string]*memory.Store{
		"master.csv": memory.New("master", records.New("master", "Nombre completo")),
	})
	_, err := Run(context.Background(), app, &Flags{MasterFlags: &cmdutil.MasterFlags{Path: "master.csv"}})
	assert.True(t, errors.IsColumnMissing(err))
}
