package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testRecorder struct {
	NoopRecorder
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	runDurations   int
	runOutcomes    map[string]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{stageDurations: map[string]int{}, stageResults: map[string]map[ResultLabel]int{}, runOutcomes: map[string]int{}}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) ObserveRunDuration(_ time.Duration) { t.runDurations++ }
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncRunOutcome(outcome string) { t.runOutcomes[outcome]++ }

func TestRecorderInterfaceSatisfied(t *testing.T) {
	var r Recorder = newTestRecorder()
	r.ObserveStageDuration("extract", time.Millisecond)
	r.IncStageResult("extract", ResultSuccess)
	r.IncRunOutcome("success")
	r.ObserveRunDuration(time.Second)
	r.AddAnomalies("UNRESOLVED_LINK", 2)

	tr := r.(*testRecorder)
	assert.Equal(t, 1, tr.stageDurations["extract"])
	assert.Equal(t, 1, tr.stageResults["extract"][ResultSuccess])
	assert.Equal(t, 1, tr.runOutcomes["success"])
	assert.Equal(t, 1, tr.runDurations)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObserveStageDuration("map", time.Second)
		r.SetPages("site", 3)
		r.AddAssets("fuzzy", 1)
	})
}
