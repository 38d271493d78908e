package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/dumpsite/internal/logfields"
	"git.home.luguber.info/inful/dumpsite/internal/metrics"
)

// StageName identifies a conversion stage.
type StageName string

const (
	StageExtract   StageName = "extract"
	StageGraph     StageName = "graph"
	StageAssemble  StageName = "assemble"
	StageWrite     StageName = "write"
	StageMedia     StageName = "media"
	StageSiteBuild StageName = "site_build"
)

// Stage is a discrete unit of work in a run.
type Stage func(ctx context.Context, rs *RunState) error

// StageDef pairs a stage name with its function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage.
func runStages(ctx context.Context, rs *RunState, stages []StageDef, rec metrics.Recorder) error {
	report := rs.Report
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.Name, err)
			report.Errors = append(report.Errors, se)
			report.StageErrorKinds[st.Name] = se.Kind
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return se
		}

		t0 := time.Now()
		err := st.Fn(ctx, rs)
		dur := time.Since(t0)
		report.StageDurations[st.Name] = dur
		rec.ObserveStageDuration(string(st.Name), dur)
		slog.Info("Stage finished",
			logfields.Site(rs.Site.Name),
			logfields.Stage(string(st.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000))

		if err == nil {
			report.StageResults[st.Name] = metrics.ResultSuccess
			rec.IncStageResult(string(st.Name), metrics.ResultSuccess)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			se = newFatalStageError(st.Name, err)
		}
		if errors.Is(se.Err, context.Canceled) || errors.Is(se.Err, context.DeadlineExceeded) {
			se.Kind = StageErrorCanceled
		}
		report.StageErrorKinds[st.Name] = se.Kind
		switch se.Kind {
		case StageErrorWarning:
			report.Warnings = append(report.Warnings, se)
			report.StageResults[st.Name] = metrics.ResultWarning
			rec.IncStageResult(string(st.Name), metrics.ResultWarning)
			slog.Warn("Stage warning", logfields.Stage(string(st.Name)), logfields.Error(se.Err))
		case StageErrorCanceled:
			report.Errors = append(report.Errors, se)
			report.StageResults[st.Name] = metrics.ResultCanceled
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return se
		default:
			report.Errors = append(report.Errors, se)
			report.StageResults[st.Name] = metrics.ResultFatal
			rec.IncStageResult(string(st.Name), metrics.ResultFatal)
			return se
		}
	}
	return nil
}
