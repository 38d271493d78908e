// Package commands implements the dumpsite subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/dumpsite/internal/config"
	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
	"git.home.luguber.info/inful/dumpsite/internal/history"
	"git.home.luguber.info/inful/dumpsite/internal/imaging"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
	"git.home.luguber.info/inful/dumpsite/internal/metrics"
	"git.home.luguber.info/inful/dumpsite/internal/notify"
	"git.home.luguber.info/inful/dumpsite/internal/pipeline"
	"git.home.luguber.info/inful/dumpsite/internal/retry"
)

// LogLevelEnv overrides the configured log level.
const LogLevelEnv = "DUMPSITE_LOG_LEVEL"

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"dumpsite.yaml" env:"DUMPSITE_CONFIG"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Convert ConvertCmd `cmd:"" help:"Convert configured dumps into document sets"`
	Inspect InspectCmd `cmd:"" help:"Extract and assemble without writing, then print what would be produced"`
	Verify  VerifyCmd  `cmd:"" help:"Report hand-edited pages in written document sets"`
	Watch   WatchCmd   `cmd:"" help:"Re-convert whenever a dump or media tree changes"`
	History HistoryCmd `cmd:"" help:"List recorded runs and their anomalies"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; it installs the default logger from the
// flags and the environment. loadConfig refines it from the file.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(parseLogLevel(c.Verbose, ""), config.NormalizeLogFormat(c.LogFormat))
	return nil
}

// parseLogLevel resolves the level: -v wins, then DUMPSITE_LOG_LEVEL, then
// the configured level.
func parseLogLevel(verbose bool, configured string) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	raw := os.Getenv(LogLevelEnv)
	if raw == "" {
		raw = configured
	}
	switch config.NormalizeLogLevel(raw) {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogging(level slog.Level, format config.LogFormat) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig loads the configuration and applies its logging section unless
// the command line already decided.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	format := config.NormalizeLogFormat(cfg.Logging.Format)
	if root.LogFormat != "" {
		format = config.NormalizeLogFormat(root.LogFormat)
	}
	setupLogging(parseLogLevel(root.Verbose, cfg.Logging.Level), format)
	return cfg, nil
}

// selectSites returns the named sites in the given order, or every site when
// names is empty.
func selectSites(cfg *config.Config, names []string) ([]config.Site, error) {
	if len(names) == 0 {
		return cfg.Sites, nil
	}
	sites := make([]config.Site, 0, len(names))
	for _, n := range names {
		s, ok := cfg.Site(n)
		if !ok {
			return nil, derrors.NewError(derrors.CategoryNotFound, "site not configured").
				WithContext("site", n).Build()
		}
		sites = append(sites, s)
	}
	return sites, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// environment holds the collaborators of a Runner for the lifetime of one
// command.
type environment struct {
	Runner    *pipeline.Runner
	Recorder  *metrics.PrometheusRecorder
	history   *history.Store
	publisher notify.Publisher
}

func newEnvironment(cfg *config.Config) (*environment, error) {
	env := &environment{
		Recorder:  metrics.NewPrometheusRecorder(prom.NewRegistry()),
		publisher: notify.Noop{},
	}
	opts := pipeline.Options{
		Media:     cfg.Media,
		SiteBuild: cfg.SiteBuild,
		Recorder:  env.Recorder,
		Retry:     retry.FromConfig(cfg.Retry),
	}
	if cfg.Media.Encoder != "" {
		enc, err := imaging.NewCommand(cfg.Media.Encoder, cfg.Media.EncoderArgs)
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryConfig, "image encoder not usable").
				WithContext("encoder", cfg.Media.Encoder).Build()
		}
		opts.Encoder = enc
	}
	if !cfg.History.Disabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("Run history unavailable", logfields.Path(cfg.History.Path), logfields.Error(err))
		} else {
			env.history = store
			opts.History = store
		}
	}
	if pub, err := notify.New(cfg.Notify.URL, cfg.Notify.Subject); err != nil {
		slog.Warn("Run notifications unavailable", logfields.Error(err))
	} else {
		env.publisher = pub
	}
	opts.Publisher = env.publisher
	env.Runner = pipeline.NewRunner(opts)
	return env, nil
}

// writeMetrics writes the textfile when a path is configured.
func (e *environment) writeMetrics(path string) {
	if path == "" {
		return
	}
	if err := e.Recorder.WriteTextfile(path); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}

func (e *environment) Close() {
	e.publisher.Close()
	if e.history != nil {
		if err := e.history.Close(); err != nil {
			slog.Warn("Failed to close run history", logfields.Error(err))
		}
	}
}

func printf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stdout, format, args...)
}
