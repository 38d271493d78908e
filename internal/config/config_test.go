package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("DUMPSITE_TEST_DUMP", "dump.sql")
	dir := t.TempDir()
	path := writeFile(t, dir, "dumpsite.yaml", `sites:
  - name: kunde
    dump: ./${DUMPSITE_TEST_DUMP}
    media_root: www
logging:
  level: DEBUG
watch:
  interval: 10m
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sites, 1)
	site := cfg.Sites[0]
	assert.Equal(t, filepath.Join(dir, "dump.sql"), site.Dump)
	assert.Equal(t, filepath.Join(dir, "www"), site.MediaRoot)
	assert.Equal(t, DefaultTablePrefix, site.TablePrefix)
	assert.Equal(t, string(LogLevelDebug), cfg.Logging.Level)
	assert.Equal(t, string(LogFormatText), cfg.Logging.Format)
	assert.Equal(t, DefaultBatchConcurrency, cfg.Batch.Concurrency)
	assert.Equal(t, DefaultDebounce, cfg.Watch.DebounceDuration())
	assert.Equal(t, 10*time.Minute, cfg.Watch.IntervalDuration())
	assert.Equal(t, DefaultNotifySubject, cfg.Notify.Subject)
	assert.NotEmpty(t, cfg.History.Path)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "dumpsite.toml", `
[[sites]]
name = "a"
dump = "/data/a.sql"
table_prefix = "cms_"

[batch]
concurrency = 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	site, ok := cfg.Site("a")
	require.True(t, ok)
	assert.Equal(t, "/data/a.sql", site.Dump)
	assert.Equal(t, "cms_", site.TablePrefix)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	_, ok = cfg.Site("b")
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		content  string
		category derrors.ErrorCategory
	}{
		{name: "no sites", content: "logging:\n  level: info\n", category: derrors.CategoryValidation},
		{name: "missing dump", content: "sites:\n  - name: a\n", category: derrors.CategoryValidation},
		{name: "duplicate site", content: "sites:\n  - {name: a, dump: x}\n  - {name: a, dump: y}\n", category: derrors.CategoryValidation},
		{name: "bad debounce", content: "sites:\n  - {name: a, dump: x}\nwatch:\n  debounce: soon\n", category: derrors.CategoryValidation},
		{name: "bad log level", content: "sites:\n  - {name: a, dump: x}\nlogging:\n  level: loud\n", category: derrors.CategoryValidation},
		{name: "bad log format", content: "sites:\n  - {name: a, dump: x}\nlogging:\n  format: xml\n", category: derrors.CategoryValidation},
		{name: "bad retry backoff", content: "sites:\n  - {name: a, dump: x}\nretry:\n  backoff: random\n", category: derrors.CategoryValidation},
		{name: "bad yaml", content: "sites: [\n", category: derrors.CategoryConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "c.yaml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, tt.category, derrors.GetCategory(err))
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, derrors.CategoryConfig, derrors.GetCategory(err))
}

func TestInitRoundTrips(t *testing.T) {
	for _, name := range []string{"dumpsite.yaml", "dumpsite.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Init(path, false))
			require.Error(t, Init(path, false))
			require.NoError(t, Init(path, true))

			cfg, err := Load(path)
			require.NoError(t, err)
			require.Len(t, cfg.Sites, 1)
			assert.Equal(t, "example", cfg.Sites[0].Name)
		})
	}
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("Warning"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(" json "))
}
