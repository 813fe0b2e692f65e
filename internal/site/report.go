package site

import (
	"time"

	"git.home.luguber.info/inful/mdsite/internal/metrics"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport summarizes one build. It feeds logs, metrics and notifications
// and is never written into the site output.
type BuildReport struct {
	BuildID        string
	Start          time.Time
	End            time.Time
	Posts          int
	Output         string
	Outcome        BuildOutcome
	StageDurations map[StageName]time.Duration
	Warnings       []string
}

func newReport(buildID, output string, start time.Time) *BuildReport {
	return &BuildReport{
		BuildID:        buildID,
		Start:          start,
		Output:         output,
		StageDurations: map[StageName]time.Duration{},
	}
}

// Duration is the wall time between Start and End.
func (r *BuildReport) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

func (r *BuildReport) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (o BuildOutcome) metricsLabel() metrics.BuildOutcomeLabel {
	switch o {
	case OutcomeSuccess:
		return metrics.BuildOutcomeSuccess
	case OutcomeCanceled:
		return metrics.BuildOutcomeCanceled
	default:
		return metrics.BuildOutcomeFailed
	}
}
