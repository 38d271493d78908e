package commands

import (
	"fmt"

	"git.home.luguber.info/inful/dumpsite/internal/config"
	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
	"git.home.luguber.info/inful/dumpsite/internal/pipeline"
)

// ConvertCmd implements the 'convert' command.
type ConvertCmd struct {
	Site        []string `short:"s" help:"Convert only the named site (repeatable)"`
	SkipMedia   bool     `name:"skip-media" help:"Do not copy referenced media files"`
	Concurrency int      `short:"j" help:"Number of sites converted at once (overrides batch.concurrency)"`
	MetricsFile string   `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the batch"`
}

func (c *ConvertCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	sites, err := selectSites(cfg, c.Site)
	if err != nil {
		return err
	}
	c.apply(cfg)

	env, err := newEnvironment(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := signalContext()
	defer cancel()

	results := pipeline.RunBatch(ctx, sites, cfg.Batch.Concurrency, env.Runner.Run)
	for _, r := range results {
		printResult(r)
	}
	env.writeMetrics(cfg.Metrics.TextFile)

	if failed := pipeline.Failed(results); failed > 0 {
		return derrors.NewError(derrors.CategoryRuntime, fmt.Sprintf("%d of %d sites failed", failed, len(results))).Build()
	}
	return nil
}

// apply folds the flags into the loaded configuration.
func (c *ConvertCmd) apply(cfg *config.Config) {
	if c.SkipMedia {
		cfg.Media.Skip = true
	}
	if c.Concurrency > 0 {
		cfg.Batch.Concurrency = c.Concurrency
	}
	if c.MetricsFile != "" {
		cfg.Metrics.TextFile = c.MetricsFile
	}
}

func printResult(r pipeline.SiteResult) {
	switch {
	case r.Report != nil:
		printf("%s\n", r.Report.Summary())
		if r.Err != nil {
			printf("  error: %v\n", r.Err)
		}
	case r.Err != nil:
		printf("site=%s error=%v\n", r.Site, r.Err)
	}
}
