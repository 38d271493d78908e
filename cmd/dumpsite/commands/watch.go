package commands

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/dumpsite/internal/config"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
	"git.home.luguber.info/inful/dumpsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Site      []string `short:"s" help:"Watch only the named site (repeatable)"`
	NoInitial bool     `name:"no-initial" help:"Wait for the first change instead of converting at startup"`
	Interval  string   `help:"Also re-convert on this interval (overrides watch.interval)"`
	NoMedia   bool     `name:"no-media" help:"Do not watch the media roots"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if w.Interval != "" {
		cfg.Watch.Interval = w.Interval
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	sites, err := selectSites(cfg, w.Site)
	if err != nil {
		return err
	}
	env, err := newEnvironment(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, site := range sites {
		watcher, err := watch.New(w.options(cfg, site, env))
		if err != nil {
			return err
		}
		g.Go(func() error { return watcher.Run(gctx) })
	}
	slog.Info("Watching for changes", logfields.Count(len(sites)))
	err = g.Wait()
	slog.Info("Watch stopped")
	return err
}

func (w *WatchCmd) options(cfg *config.Config, site config.Site, env *environment) watch.Options {
	opts := watch.Options{
		Files:      []string{site.Dump},
		Debounce:   cfg.Watch.DebounceDuration(),
		Interval:   cfg.Watch.IntervalDuration(),
		RunOnStart: !w.NoInitial,
		Run: func(ctx context.Context, reason string) {
			report, err := env.Runner.Run(ctx, site)
			if err != nil {
				slog.Error("Conversion failed", logfields.Site(site.Name), slog.String("reason", reason), logfields.Error(err))
			} else {
				printf("%s\n", report.Summary())
			}
			env.writeMetrics(cfg.Metrics.TextFile)
		},
	}
	if site.MediaRoot != "" && !w.NoMedia {
		opts.Dirs = []string{site.MediaRoot}
	}
	return opts
}
