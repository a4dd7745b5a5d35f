package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queryscope.yml")

	content := `
database:
  path: /tmp/ledger.db
fdh:
  path: testdata/fdh.json
  summary_path: out/fdh_summary.json
osquery:
  path: testdata/queries.csv
  load_nrows: 100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
	assert.Equal(t, "testdata/fdh.json", cfg.FDH.Path)
	assert.Equal(t, "out/fdh_summary.json", cfg.FDH.SummaryPath)
	assert.Equal(t, "testdata/queries.csv", cfg.Osquery.Path)
	assert.Equal(t, 100, cfg.Osquery.LoadNRows)

	// Defaults fill unspecified keys
	assert.Equal(t, "query_summary.csv", cfg.Osquery.QuerySummaryCSV)
	assert.Equal(t, "everforest", cfg.Log.Theme)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "queryscope.db", cfg.Database.Path)
	assert.Equal(t, "fdh_summary.json", cfg.FDH.SummaryPath)
	assert.True(t, cfg.FDH.IncludeRaw)
	assert.Equal(t, 0, cfg.Osquery.LoadNRows)
	assert.Equal(t, "osquery_summary.json", cfg.Osquery.SummaryPath)
	assert.False(t, cfg.Log.JSON)
}

func TestGetDatabasePathFallback(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "queryscope.db", cfg.GetDatabasePath())

	cfg.Database.Path = "custom.db"
	assert.Equal(t, "custom.db", cfg.GetDatabasePath())
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queryscope.yml")

	require.NoError(t, WriteTemplate(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// The template must round-trip as valid YAML with the default values
	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "queryscope.db", cfg.Database.Path)
	assert.Equal(t, "everforest", cfg.Log.Theme)

	// Second write must refuse to overwrite
	require.Error(t, WriteTemplate(path))
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "fdh:\n  path: from-file.json\nosquery:\n  load_nrows: 50\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "queryscope.yml"), []byte(content), 0o644))

	t.Chdir(dir)
	t.Setenv("QUERYSCOPE_FDH_PATH", "from-env.json")
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)

	// Environment outranks the project file; file keys without an env
	// override still apply.
	assert.Equal(t, "from-env.json", cfg.FDH.Path)
	assert.Equal(t, 50, cfg.Osquery.LoadNRows)
}

func TestResetClearsCache(t *testing.T) {
	Reset()
	cfg1, err := Load()
	require.NoError(t, err)

	Reset()
	cfg2, err := Load()
	require.NoError(t, err)

	// Same values, distinct instances after reset
	assert.Equal(t, cfg1.Log.Theme, cfg2.Log.Theme)
}
