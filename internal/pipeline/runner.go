// Package pipeline runs a conversion as a sequence of stages: extract the
// dump, build the resource graph, assemble documents, write them, copy media
// and optionally hand the output to a site builder. Each run produces a
// RunReport persisted next to the output.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/config"
	"git.home.luguber.info/inful/dumpsite/internal/history"
	"git.home.luguber.info/inful/dumpsite/internal/imaging"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
	"git.home.luguber.info/inful/dumpsite/internal/metrics"
	"git.home.luguber.info/inful/dumpsite/internal/notify"
	"git.home.luguber.info/inful/dumpsite/internal/retry"
)

// HistoryStore records finished runs.
type HistoryStore interface {
	RecordRun(ctx context.Context, run history.Run, entries []anomaly.Entry) error
}

// Options wires the optional collaborators of a Runner.
type Options struct {
	Media     config.MediaConfig
	SiteBuild config.SiteBuildConfig
	Recorder  metrics.Recorder
	History   HistoryStore
	Publisher notify.Publisher
	Encoder   imaging.Encoder
	// Retry applies to history recording and event publishing.
	Retry retry.Policy
}

// Runner executes conversion runs. A Runner may be shared by concurrent runs
// of different sites.
type Runner struct {
	opts Options
}

// NewRunner returns a Runner, defaulting unset collaborators to no-ops.
func NewRunner(opts Options) *Runner {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Publisher == nil {
		opts.Publisher = notify.Noop{}
	}
	return &Runner{opts: opts}
}

func (r *Runner) stages() []StageDef {
	return []StageDef{
		{Name: StageExtract, Fn: stageExtract},
		{Name: StageGraph, Fn: stageGraph},
		{Name: StageAssemble, Fn: stageAssemble},
		{Name: StageWrite, Fn: stageWrite},
		{Name: StageMedia, Fn: r.stageMedia},
		{Name: StageSiteBuild, Fn: r.stageSiteBuild},
	}
}

// Run converts one site. The returned error is the fatal stage error, if any;
// the report is returned in every case and has already been persisted,
// recorded in history and published.
func (r *Runner) Run(ctx context.Context, site config.Site) (*RunReport, error) {
	report := newRunReport(uuid.NewString(), site.Name, site.Output)
	rs := newRunState(site, report)
	slog.Info("Conversion started", logfields.Site(site.Name), logfields.RunID(report.RunID), logfields.Path(site.Dump))

	err := runStages(ctx, rs, r.stages(), r.opts.Recorder)
	report.Anomalies = rs.Log.Entries()
	report.finish()

	if perr := report.Persist(site.Output); perr != nil {
		slog.Warn("Failed to persist run report", logfields.Site(site.Name), logfields.Error(perr))
	}
	r.observe(report)
	r.record(ctx, report)
	r.publish(ctx, report)

	slog.Info("Conversion finished", logfields.Site(site.Name), slog.String("summary", report.Summary()))
	return report, err
}

// Inspect runs the read-only stages and returns the report without writing
// anything.
func (r *Runner) Inspect(ctx context.Context, site config.Site) (*RunReport, *RunState, error) {
	report := newRunReport(uuid.NewString(), site.Name, site.Output)
	rs := newRunState(site, report)
	err := runStages(ctx, rs, r.stages()[:3], metrics.NoopRecorder{})
	report.Pages = len(rs.Set.Pages)
	report.Anomalies = rs.Log.Entries()
	report.finish()
	return report, rs, err
}

func (r *Runner) observe(report *RunReport) {
	rec := r.opts.Recorder
	rec.ObserveRunDuration(report.End.Sub(report.Start))
	rec.IncRunOutcome(string(report.Outcome))
	rec.SetPages(report.Site, report.Pages)
	for code, n := range report.AnomalyCounts() {
		rec.AddAnomalies(string(code), n)
	}
	for strategy, n := range report.Assets {
		rec.AddAssets(strategy, n)
	}
}

func (r *Runner) record(ctx context.Context, report *RunReport) {
	if r.opts.History == nil {
		return
	}
	run := history.Run{
		ID:        report.RunID,
		Site:      report.Site,
		Started:   report.Start,
		Finished:  report.End,
		Outcome:   string(report.Outcome),
		Pages:     report.Pages,
		Redirects: report.Redirects,
		Assets:    report.Media.Total(),
		Anomalies: len(report.Anomalies),
	}
	if err := report.Err(); err != nil {
		run.Error = err.Error()
	}
	// Recording must outlive a canceled run context.
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	err := r.opts.Retry.Do(hctx, func(ctx context.Context) error {
		return r.opts.History.RecordRun(ctx, run, report.Anomalies)
	})
	if err != nil {
		slog.Warn("Failed to record run history", logfields.RunID(report.RunID), logfields.Error(err))
	}
}

func (r *Runner) publish(ctx context.Context, report *RunReport) {
	ev := notify.RunEvent{
		RunID:     report.RunID,
		Site:      report.Site,
		Outcome:   string(report.Outcome),
		Started:   report.Start,
		Finished:  report.End,
		Output:    report.Output,
		Pages:     report.Pages,
		Redirects: report.Redirects,
		Assets:    report.Media.Total(),
		Anomalies: make(map[string]int),
	}
	for code, n := range report.AnomalyCounts() {
		ev.Anomalies[string(code)] = n
	}
	if err := report.Err(); err != nil {
		ev.Error = err.Error()
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	err := r.opts.Retry.Do(pctx, func(ctx context.Context) error {
		return r.opts.Publisher.Publish(ctx, ev)
	})
	if err != nil {
		slog.Warn("Failed to publish run event", logfields.RunID(report.RunID), logfields.Error(err))
	}
}
