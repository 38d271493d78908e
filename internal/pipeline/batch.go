package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/dumpsite/internal/config"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
)

// SiteResult is the outcome of one site in a batch.
type SiteResult struct {
	Site   string
	Report *RunReport
	Err    error
}

// RunFunc converts one site.
type RunFunc func(ctx context.Context, site config.Site) (*RunReport, error)

// RunBatch converts sites with at most limit runs in flight. A failing site
// does not stop the others; results are returned in input order.
func RunBatch(ctx context.Context, sites []config.Site, limit int, run RunFunc) []SiteResult {
	if limit <= 0 {
		limit = 1
	}
	results := make([]SiteResult, len(sites))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, site := range sites {
		g.Go(func() error {
			results[i].Site = site.Name
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			report, err := run(ctx, site)
			results[i].Report = report
			results[i].Err = err
			if err != nil {
				slog.Error("Site conversion failed", logfields.Site(site.Name), logfields.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Failed counts the results carrying an error.
func Failed(results []SiteResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
