// Package notify publishes a build-completed event to NATS after every
// successful build so other systems (deploy hooks, cache purgers) can react.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/mdsite/internal/config"
	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
	"git.home.luguber.info/inful/mdsite/internal/logfields"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
	"git.home.luguber.info/inful/mdsite/internal/retry"
	"git.home.luguber.info/inful/mdsite/internal/site"
)

const (
	connectTimeout = 5 * time.Second
	flushTimeout   = 5 * time.Second
)

// BuildEvent is the JSON payload published for a completed build.
type BuildEvent struct {
	BuildID     string    `json:"build_id"`
	Posts       int       `json:"posts"`
	Output      string    `json:"output"`
	DurationMS  int64     `json:"duration_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

// EventFromReport converts a build report into its event payload.
func EventFromReport(r *site.BuildReport) BuildEvent {
	return BuildEvent{
		BuildID:     r.BuildID,
		Posts:       r.Posts,
		Output:      r.Output,
		DurationMS:  r.Duration().Milliseconds(),
		CompletedAt: r.End.UTC(),
	}
}

// Conn is the subset of *nats.Conn the notifier uses.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// Notifier publishes BuildEvents. It implements site.BuildObserver.
type Notifier struct {
	site.NoopObserver

	conn     Conn
	subject  string
	policy   retry.Policy
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Connect dials the configured NATS server.
func Connect(cfg config.NotifyConfig) (*Notifier, error) {
	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("mdsite"),
		nats.Timeout(connectTimeout),
	)
	if err != nil {
		return nil, errors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", cfg.NATSURL).
			Build()
	}
	slog.Info("NATS notifier connected", logfields.URL(cfg.NATSURL), logfields.Subject(cfg.Subject))
	return New(conn, cfg.Subject).SetRetryPolicy(retry.NewPolicy(cfg.Retry)), nil
}

// New wraps an established connection. Publishes are not retried until a
// policy is set with SetRetryPolicy.
func New(conn Conn, subject string) *Notifier {
	return &Notifier{
		conn:     conn,
		subject:  subject,
		policy:   retry.NoRetry(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// SetRecorder injects a metrics recorder (returns notifier for chaining).
func (n *Notifier) SetRecorder(r metrics.Recorder) *Notifier {
	if r != nil {
		n.recorder = r
	}
	return n
}

// SetRetryPolicy sets how failed publishes are retried (returns notifier for chaining).
func (n *Notifier) SetRetryPolicy(p retry.Policy) *Notifier {
	n.policy = p
	return n
}

// SetLogger replaces the logger (returns notifier for chaining).
func (n *Notifier) SetLogger(l *slog.Logger) *Notifier {
	if l != nil {
		n.logger = l
	}
	return n
}

// Publish sends one event and waits for the server to acknowledge the flush.
// Failed attempts are retried according to the retry policy.
func (n *Notifier) Publish(ctx context.Context, event BuildEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.InternalError("failed to marshal build event").WithCause(err).Build()
	}
	attempt := 0
	return n.policy.Do(ctx, func() error {
		attempt++
		if attempt > 1 {
			n.logger.Debug("Retrying build event publish", logfields.Subject(n.subject), slog.Int("attempt", attempt))
		}
		return n.publishOnce(ctx, data)
	})
}

func (n *Notifier) publishOnce(ctx context.Context, data []byte) error {
	if err := n.conn.Publish(n.subject, data); err != nil {
		return errors.NotifyError("failed to publish build event").
			WithCause(err).
			WithContext("subject", n.subject).
			Build()
	}

	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return errors.NotifyError("failed to flush build event").
			WithCause(err).
			WithContext("subject", n.subject).
			Build()
	}
	return nil
}

// OnBuildComplete publishes an event for successful builds. Publish failures
// are logged and never fail the build: the site is already promoted.
func (n *Notifier) OnBuildComplete(ctx context.Context, report *site.BuildReport) {
	if report == nil || report.Outcome != site.OutcomeSuccess {
		return
	}
	// The build context may be canceled right after a successful build
	// (preview shutdown); the event should still go out.
	err := n.Publish(context.WithoutCancel(ctx), EventFromReport(report))
	n.recorder.IncNotification(err == nil)
	if err != nil {
		n.logger.Warn("Build notification failed",
			logfields.BuildID(report.BuildID),
			logfields.Subject(n.subject),
			logfields.Error(err))
		return
	}
	n.logger.Debug("Published build event", logfields.BuildID(report.BuildID), logfields.Subject(n.subject))
}

// Close closes the NATS connection.
func (n *Notifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
