package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/media"
	"git.home.luguber.info/inful/dumpsite/internal/metrics"
)

const (
	ReportJSON = "anomalies.json"
	ReportText = "anomalies.txt"
)

// Outcome is the final state of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// RunReport captures what one conversion run did.
type RunReport struct {
	SchemaVersion   int
	RunID           string
	Site            string
	Output          string
	Start           time.Time
	End             time.Time
	Errors          []error
	Warnings        []error
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageResults    map[StageName]metrics.ResultLabel
	Resources       int
	Pages           int
	Redirects       int
	Assets          map[string]int // references resolved per strategy
	Media           media.Summary
	Anomalies       []anomaly.Entry
	Outcome         Outcome
}

func newRunReport(runID, site, output string) *RunReport {
	return &RunReport{
		SchemaVersion:   1,
		RunID:           runID,
		Site:            site,
		Output:          output,
		Start:           time.Now(),
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageResults:    make(map[StageName]metrics.ResultLabel),
		Assets:          make(map[string]int),
	}
}

// finish stamps the end time and derives the outcome.
func (r *RunReport) finish() {
	r.End = time.Now()
	r.deriveOutcome()
}

func (r *RunReport) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 || len(r.Anomalies) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// AnomalyCounts aggregates the recorded anomalies per code.
func (r *RunReport) AnomalyCounts() map[anomaly.Code]int {
	out := make(map[anomaly.Code]int)
	for _, e := range r.Anomalies {
		out[e.Code]++
	}
	return out
}

// Err returns the first fatal error of the run.
func (r *RunReport) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Summary returns a human-readable single-line summary.
func (r *RunReport) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("site=%s resources=%d pages=%d redirects=%d media=%d anomalies=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.Site, r.Resources, r.Pages, r.Redirects, r.Media.Total(), len(r.Anomalies),
		dur.Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

// Text renders the summary, the per-code counts and every anomaly, one per
// line, for manual review.
func (r *RunReport) Text() string {
	var b strings.Builder
	b.WriteString(r.Summary())
	b.WriteString("\n")
	counts := r.AnomalyCounts()
	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, string(c))
	}
	sort.Strings(codes)
	if len(codes) > 0 {
		b.WriteString("\n")
	}
	for _, c := range codes {
		fmt.Fprintf(&b, "%-22s %d\n", c, counts[anomaly.Code(c)])
	}
	if len(r.Anomalies) > 0 {
		b.WriteString("\n")
	}
	for _, e := range r.Anomalies {
		fmt.Fprintf(&b, "%s\t%s", e.Severity, e.Code)
		if e.ResourceID != 0 {
			fmt.Fprintf(&b, "\t#%d %s", e.ResourceID, e.Resource)
		}
		if e.Token != "" {
			fmt.Fprintf(&b, "\t%q", e.Token)
		}
		fmt.Fprintf(&b, "\t%s\n", e.Message)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "error\t%v\n", e)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "warning\t%v\n", w)
	}
	return b.String()
}

// Persist writes the report atomically into root as anomalies.json (machine
// readable) and anomalies.txt (human summary).
func (r *RunReport) Persist(root string) error {
	if r.End.IsZero() {
		r.finish()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportJSON), jb); err != nil {
		return fmt.Errorf("write report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportText), []byte(r.Text())); err != nil {
		return fmt.Errorf("write report summary: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// RunReportSerializable mirrors RunReport with string errors and string keyed
// maps for JSON output.
type RunReportSerializable struct {
	SchemaVersion   int                `json:"schema_version"`
	RunID           string             `json:"run_id"`
	Site            string             `json:"site"`
	Output          string             `json:"output"`
	Start           time.Time          `json:"start"`
	End             time.Time          `json:"end"`
	Outcome         Outcome            `json:"outcome"`
	Errors          []string           `json:"errors"`
	Warnings        []string           `json:"warnings"`
	StageDurations  map[string]float64 `json:"stage_durations_ms"`
	StageErrorKinds map[string]string  `json:"stage_error_kinds"`
	Resources       int                `json:"resources"`
	Pages           int                `json:"pages"`
	Redirects       int                `json:"redirects"`
	Assets          map[string]int     `json:"assets"`
	Media           media.Summary      `json:"media"`
	Counts          map[string]int     `json:"counts"`
	Anomalies       []anomaly.Entry    `json:"anomalies"`
}

func (r *RunReport) serializable() *RunReportSerializable {
	s := &RunReportSerializable{
		SchemaVersion:   r.SchemaVersion,
		RunID:           r.RunID,
		Site:            r.Site,
		Output:          r.Output,
		Start:           r.Start,
		End:             r.End,
		Outcome:         r.Outcome,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		StageDurations:  make(map[string]float64, len(r.StageDurations)),
		StageErrorKinds: make(map[string]string, len(r.StageErrorKinds)),
		Resources:       r.Resources,
		Pages:           r.Pages,
		Redirects:       r.Redirects,
		Assets:          r.Assets,
		Media:           r.Media,
		Counts:          make(map[string]int),
		Anomalies:       r.Anomalies,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	for k, v := range r.StageDurations {
		s.StageDurations[string(k)] = float64(v.Microseconds()) / 1000
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	for k, v := range r.AnomalyCounts() {
		s.Counts[string(k)] = v
	}
	if s.Anomalies == nil {
		s.Anomalies = []anomaly.Entry{}
	}
	return s
}
