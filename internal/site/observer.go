package site

import (
	"context"
	"time"

	"git.home.luguber.info/inful/mdsite/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and build lifecycle.
// OnBuildComplete is called once per build, after promotion on success and
// after cleanup on failure.
type BuildObserver interface {
	OnStageComplete(stage StageName, d time.Duration, result metrics.ResultLabel)
	OnBuildComplete(ctx context.Context, report *BuildReport)
}

// NoopObserver is a no-op implementation, embeddable by observers that only
// care about a subset of callbacks.
type NoopObserver struct{}

func (NoopObserver) OnStageComplete(StageName, time.Duration, metrics.ResultLabel) {}
func (NoopObserver) OnBuildComplete(context.Context, *BuildReport)                 {}

// recorderObserver adapts metrics.Recorder into a BuildObserver.
type recorderObserver struct{ rec metrics.Recorder }

func (r recorderObserver) OnStageComplete(stage StageName, d time.Duration, result metrics.ResultLabel) {
	r.rec.ObserveStageDuration(string(stage), d)
	r.rec.IncStageResult(string(stage), result)
}

func (r recorderObserver) OnBuildComplete(_ context.Context, report *BuildReport) {
	r.rec.ObserveBuildDuration(report.Duration())
	r.rec.IncBuildOutcome(report.Outcome.metricsLabel())
	if report.Outcome == OutcomeSuccess {
		r.rec.AddPostsRendered(report.Posts)
	}
}
