// Package config loads the dumpsite configuration from YAML or TOML files.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
)

// Config is the complete configuration of a dumpsite invocation.
type Config struct {
	Sites     []Site          `yaml:"sites" toml:"sites"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Media     MediaConfig     `yaml:"media" toml:"media"`
	Batch     BatchConfig     `yaml:"batch" toml:"batch"`
	Watch     WatchConfig     `yaml:"watch" toml:"watch"`
	History   HistoryConfig   `yaml:"history" toml:"history"`
	Notify    NotifyConfig    `yaml:"notify" toml:"notify"`
	SiteBuild SiteBuildConfig `yaml:"site_build" toml:"site_build"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
	Retry     RetryConfig     `yaml:"retry" toml:"retry"`
}

// Site describes one dump to convert.
type Site struct {
	Name string `yaml:"name" toml:"name"`
	// Dump is the path of the SQL dump file.
	Dump string `yaml:"dump" toml:"dump"`
	// MediaRoot is the directory holding the CMS document root (assets/, uploads/...).
	MediaRoot   string `yaml:"media_root,omitempty" toml:"media_root,omitempty"`
	Output      string `yaml:"output" toml:"output"`
	TablePrefix string `yaml:"table_prefix,omitempty" toml:"table_prefix,omitempty"`
	// DeadMarkers are template placeholders removed from link targets.
	DeadMarkers   []string `yaml:"dead_markers,omitempty" toml:"dead_markers,omitempty"`
	AssetPrefixes []string `yaml:"asset_prefixes,omitempty" toml:"asset_prefixes,omitempty"`
	UploadDirs    []string `yaml:"upload_dirs,omitempty" toml:"upload_dirs,omitempty"`
	CacheDirs     []string `yaml:"cache_dirs,omitempty" toml:"cache_dirs,omitempty"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// MediaConfig controls the media copy stage.
type MediaConfig struct {
	Skip        bool `yaml:"skip,omitempty" toml:"skip,omitempty"`
	Concurrency int  `yaml:"concurrency,omitempty" toml:"concurrency,omitempty"`
	// Encoder is an optional external command re-encoding raster images. It is
	// run as `<encoder> <args...> <src> <dst>`.
	Encoder     string   `yaml:"encoder,omitempty" toml:"encoder,omitempty"`
	EncoderArgs []string `yaml:"encoder_args,omitempty" toml:"encoder_args,omitempty"`
}

// BatchConfig bounds how many sites are converted at once.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency,omitempty" toml:"concurrency,omitempty"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty" toml:"debounce,omitempty"`
	// Interval, when set, re-runs on a schedule in addition to file events.
	Interval string `yaml:"interval,omitempty" toml:"interval,omitempty"`
}

// HistoryConfig locates the run history database.
type HistoryConfig struct {
	Disabled bool   `yaml:"disabled,omitempty" toml:"disabled,omitempty"`
	Path     string `yaml:"path,omitempty" toml:"path,omitempty"`
}

// NotifyConfig configures the run-completed event publisher.
type NotifyConfig struct {
	URL     string `yaml:"url,omitempty" toml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty" toml:"subject,omitempty"`
}

// SiteBuildConfig configures an external static site builder run after a
// successful conversion, with the site output directory as working directory.
type SiteBuildConfig struct {
	Command string   `yaml:"command,omitempty" toml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty" toml:"args,omitempty"`
}

// MetricsConfig configures the Prometheus textfile output.
type MetricsConfig struct {
	TextFile string `yaml:"textfile,omitempty" toml:"textfile,omitempty"`
}

// RetryConfig controls retries of the history ledger and event publishing.
type RetryConfig struct {
	Backoff string `yaml:"backoff,omitempty" toml:"backoff,omitempty"`
	Initial string `yaml:"initial,omitempty" toml:"initial,omitempty"`
	Max     string `yaml:"max,omitempty" toml:"max,omitempty"`
	// MaxRetries < 0 disables retrying; 0 keeps the default.
	MaxRetries int `yaml:"max_retries,omitempty" toml:"max_retries,omitempty"`
}

// envFiles are loaded before the configuration is parsed. Existing process
// variables win.
var envFiles = []string{".env", ".env.local"}

// Load reads, expands, decodes, defaults and validates the file at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.ConfigError("configuration file not found").
				WithContext("path", path).WithCause(err).Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "read configuration file").
			WithContext("path", path).Build()
	}
	cfg, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "parse configuration file").
			WithContext("path", path).Build()
	}
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data after expanding ${VAR} references and applies defaults.
func Parse(data []byte, format Format) (*Config, error) {
	expanded := []byte(os.ExpandEnv(string(data)))
	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(expanded, &cfg); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func loadEnvFiles() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the syntax from the file extension, defaulting to YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// resolvePaths makes relative site paths relative to the configuration file.
func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	for i := range c.Sites {
		c.Sites[i].Dump = abs(c.Sites[i].Dump)
		c.Sites[i].MediaRoot = abs(c.Sites[i].MediaRoot)
		c.Sites[i].Output = abs(c.Sites[i].Output)
	}
}

// Site returns the named site.
func (c *Config) Site(name string) (Site, bool) {
	for _, s := range c.Sites {
		if s.Name == name {
			return s, true
		}
	}
	return Site{}, false
}

// DebounceDuration returns the parsed watch debounce.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return DefaultDebounce
	}
	return d
}

// IntervalDuration returns the parsed watch interval, zero when unset.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(w.Interval)
	if err != nil {
		return 0
	}
	return d
}
