package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dumpsite/internal/config"
	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
	"git.home.luguber.info/inful/dumpsite/internal/output"
	"git.home.luguber.info/inful/dumpsite/internal/sqldump"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name       string
		verbose    bool
		env        string
		configured string
		want       slog.Level
	}{
		{name: "default", want: slog.LevelInfo},
		{name: "verbose wins", verbose: true, env: "error", want: slog.LevelDebug},
		{name: "env over config", env: "warning", configured: "debug", want: slog.LevelWarn},
		{name: "config", configured: "error", want: slog.LevelError},
		{name: "unknown falls back", configured: "loud", want: slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LogLevelEnv, tt.env)
			assert.Equal(t, tt.want, parseLogLevel(tt.verbose, tt.configured))
		})
	}
}

func TestSelectSites(t *testing.T) {
	cfg := &config.Config{Sites: []config.Site{{Name: "a"}, {Name: "b"}, {Name: "c"}}}

	all, err := selectSites(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	picked, err := selectSites(cfg, []string{"c", "a"})
	require.NoError(t, err)
	assert.Equal(t, "c", picked[0].Name)
	assert.Equal(t, "a", picked[1].Name)

	_, err = selectSites(cfg, []string{"zzz"})
	require.Error(t, err)
	assert.Equal(t, derrors.CategoryNotFound, derrors.GetCategory(err))
}

func TestConvertApplyFlags(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	(&ConvertCmd{SkipMedia: true, Concurrency: 2, MetricsFile: "m.prom"}).apply(cfg)
	assert.True(t, cfg.Media.Skip)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, "m.prom", cfg.Metrics.TextFile)
}

func resourceRow(id int64, title, alias, content string) string {
	cols := make([]string, 44)
	for i := range cols {
		cols[i] = "''"
	}
	cols[0] = fmt.Sprint(id)
	cols[3] = sqldump.Quote(title)
	cols[6] = sqldump.Quote(alias)
	cols[9] = "1"
	cols[15] = sqldump.Quote(content)
	cols[18] = fmt.Sprint(id)
	cols[36] = sqldump.Quote("modDocument")
	cols[39] = sqldump.Quote(alias + ".html")
	return "(" + strings.Join(cols, ",") + ")"
}

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dump := "INSERT INTO `modx_site_content` VALUES " +
		resourceRow(1, "Hjem", "index", "<p>Velkommen</p>") + "," +
		resourceRow(2, "Om oss", "om-oss", `<p>Les <a href="[[~1]]">mer</a></p>`) + ";\n" +
		"INSERT INTO `modx_system_settings` VALUES ('site_start','1','','','',''),('site_name','Kunde','','','','');\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kunde.sql"), []byte(dump), 0o600))
	cfg := "sites:\n  - name: kunde\n    dump: kunde.sql\n    output: out\nhistory:\n  disabled: true\n"
	path := filepath.Join(dir, "dumpsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func TestConvertThenVerify(t *testing.T) {
	cfgPath := writeProject(t)
	root := &CLI{Config: cfgPath}
	metricsFile := filepath.Join(t.TempDir(), "dumpsite.prom")

	require.NoError(t, (&ConvertCmd{MetricsFile: metricsFile}).Run(&Global{}, root))
	out := filepath.Join(filepath.Dir(cfgPath), "out")
	assert.FileExists(t, filepath.Join(out, output.DataDir, output.SiteFile))
	assert.FileExists(t, metricsFile)

	require.NoError(t, (&VerifyCmd{}).Run(&Global{}, root))

	var page string
	require.NoError(t, filepath.Walk(filepath.Join(out, output.ContentDir), func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && page == "" {
			page = p
		}
		return err
	}))
	require.NotEmpty(t, page)
	raw, err := os.ReadFile(page)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(page, append(raw, []byte("hand edit\n")...), 0o600))

	err = (&VerifyCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	assert.Equal(t, derrors.CategoryOutput, derrors.GetCategory(err))
}

func TestInspectWritesNothing(t *testing.T) {
	cfgPath := writeProject(t)
	require.NoError(t, (&InspectCmd{Pages: true}).Run(&Global{}, &CLI{Config: cfgPath}))
	assert.NoDirExists(t, filepath.Join(filepath.Dir(cfgPath), "out"))
}

func TestConvertUnknownSite(t *testing.T) {
	cfgPath := writeProject(t)
	err := (&ConvertCmd{Site: []string{"nope"}}).Run(&Global{}, &CLI{Config: cfgPath})
	require.Error(t, err)
	assert.Equal(t, derrors.CategoryNotFound, derrors.GetCategory(err))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dumpsite.toml")
	require.NoError(t, RunInit(path, false))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example", cfg.Sites[0].Name)
	require.Error(t, RunInit(path, false))
}
