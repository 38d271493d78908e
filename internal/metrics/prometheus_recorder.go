package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "dumpsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stageDuration *prom.HistogramVec
	runDuration   prom.Histogram
	stageResults  *prom.CounterVec
	runOutcome    *prom.CounterVec
	anomalies     *prom.CounterVec
	pages         *prom.GaugeVec
	assets        *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg,
// or on a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual conversion stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Total conversion run duration",
		Buckets:   prom.DefBuckets,
	})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_outcomes_total",
		Help:      "Run outcomes by final status",
	}, []string{"outcome"})
	pr.anomalies = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "anomalies_total",
		Help:      "Recorded anomalies by code",
	}, []string{"code"})
	pr.pages = prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pages",
		Help:      "Pages written by the last run per site",
	}, []string{"site"})
	pr.assets = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "assets_resolved_total",
		Help:      "Media references by resolution strategy",
	}, []string{"strategy"})
	reg.MustRegister(pr.stageDuration, pr.runDuration, pr.stageResults, pr.runOutcome, pr.anomalies, pr.pages, pr.assets)
	return pr
}

// Registry returns the registry the collectors are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddAnomalies(code string, n int) {
	if p == nil || p.anomalies == nil || n <= 0 {
		return
	}
	p.anomalies.WithLabelValues(code).Add(float64(n))
}

func (p *PrometheusRecorder) SetPages(site string, n int) {
	if p == nil || p.pages == nil {
		return
	}
	p.pages.WithLabelValues(site).Set(float64(n))
}

func (p *PrometheusRecorder) AddAssets(strategy string, n int) {
	if p == nil || p.assets == nil || n <= 0 {
		return
	}
	p.assets.WithLabelValues(strategy).Add(float64(n))
}

// WriteTextfile writes the current state of the registry to path in the text
// exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
