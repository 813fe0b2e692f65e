package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testRecorder struct {
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[BuildOutcomeLabel]int
	posts          int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{stageDurations: map[string]int{}, stageResults: map[string]map[ResultLabel]int{}, buildOutcomes: map[BuildOutcomeLabel]int{}}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) ObserveBuildDuration(_ time.Duration) { t.buildDurations++ }
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) { t.buildOutcomes[outcome]++ }
func (t *testRecorder) AddPostsRendered(n int)                    { t.posts += n }
func (t *testRecorder) IncNotification(bool)                      {}

func TestRecorderInterfaceSatisfied(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)

	r := newTestRecorder()
	var rec Recorder = r
	rec.ObserveStageDuration("render_index", time.Millisecond)
	rec.IncStageResult("render_index", ResultFatal)
	rec.IncBuildOutcome(BuildOutcomeFailed)
	rec.AddPostsRendered(3)

	require.Equal(t, 1, r.stageDurations["render_index"])
	require.Equal(t, 1, r.stageResults["render_index"][ResultFatal])
	require.Equal(t, 1, r.buildOutcomes[BuildOutcomeFailed])
	require.Equal(t, 3, r.posts)
}
