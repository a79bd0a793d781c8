package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/merge"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// isolate runs the test from an empty directory with an empty home so no
// stray roster.yaml or .env is picked up.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, constants.DefaultSheetName, cfg.Master.Sheet)
	assert.Equal(t, constants.DefaultTableName, cfg.Master.Table)
	assert.True(t, cfg.Master.Backup)
	assert.Equal(t, merge.DefaultCountryCandidates, cfg.CountryCandidates())
	assert.Equal(t, constants.AreaColumnPrefix, cfg.AreaPrefix())
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, constants.CacheTTL, cfg.Server.CacheTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Merge.Columns.Email)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
master:
  path: data/master.xlsx
  sheet: Hoja1
  backup: false
merge:
  country_candidates: ["Country"]
  columns:
    email: ["^mail$"]
countries:
  Perú: Peru
server:
  port: 9090
  cache_ttl: 30s
  cors_origins: ["http://localhost:3000"]
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "data/master.xlsx", cfg.Master.Path)
	assert.Equal(t, "Hoja1", cfg.Master.Sheet)
	assert.Equal(t, constants.DefaultTableName, cfg.Master.Table)
	assert.False(t, cfg.Master.Backup)
	assert.Equal(t, []string{"Country"}, cfg.CountryCandidates())
	assert.Equal(t, []string{"^mail$"}, cfg.Merge.Columns.Email)
	assert.NotEmpty(t, cfg.Merge.Columns.Phone, "unset patterns keep defaults")
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Logging().Level)

	got, ok := cfg.CountryCanon().Canonical("peru")
	require.True(t, ok)
	assert.Equal(t, "Peru", got)
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(LocalFile, []byte("master:\n  path: local.csv\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "local.csv", cfg.Master.Path)
	assert.Equal(t, LocalFile, cfg.File)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "master:\n  path: from-file.csv\nserver:\n  port: 9090\n")
	t.Setenv("ROSTER_MASTER_PATH", "from-env.csv")
	t.Setenv("ROSTER_SERVER_PORT", "7070")
	t.Setenv("ROSTER_MASTER_BACKUP", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", cfg.Master.Path)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.False(t, cfg.Master.Backup)
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	t.Setenv("ROSTER_MASTER_TABLE", "")
	require.NoError(t, os.Unsetenv("ROSTER_MASTER_TABLE"))
	require.NoError(t, os.WriteFile(".env", []byte("ROSTER_MASTER_TABLE=people\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "people", cfg.Master.Table)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		var cfgErr *errors.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "master: [unclosed\n"))
		var cfgErr *errors.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("bad port", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server:\n  port: 70000\n"))
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := Load(writeConfig(t, "merge:\n  columns:\n    email: [\"(\"]\n"))
		var cfgErr *errors.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestOptionBuilders(t *testing.T) {
	cfg := Default()
	cfg.Master.Sheet = "Hoja1"

	assert.Len(t, cfg.StoreOptions(), 2)
	assert.Len(t, cfg.MergeOptions(nil), 5)

	r, err := cfg.Resolver()
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestYAMLMasksAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Server.APIKey = "secret"

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
	assert.Equal(t, "secret", cfg.Server.APIKey)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Contains(t, decoded, "master")
	assert.Contains(t, decoded, "server")
}
