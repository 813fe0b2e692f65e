package preview

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
	"git.home.luguber.info/inful/mdsite/internal/logfields"
	"git.home.luguber.info/inful/mdsite/internal/site"
)

const shutdownTimeout = 5 * time.Second

// Options configures a preview server.
type Options struct {
	Port            int            // 0 picks a free port
	RebuildInterval time.Duration  // >0 schedules periodic rebuilds
	Registry        *prom.Registry // served on /metrics; nil serves the default registry
}

// Server builds, serves and rebuilds one site.
type Server struct {
	builder  *site.Builder
	opts     Options
	registry *prom.Registry
	output   string
	targets  watchTargets
	status   buildStatus

	mu   sync.Mutex
	addr net.Addr
}

// NewServer returns a preview server for the builder's configuration.
func NewServer(builder *site.Builder, opts Options) *Server {
	cfg := builder.Config()
	abs := func(p string) string {
		if a, err := filepath.Abs(p); err == nil {
			return a
		}
		return p
	}
	return &Server{
		builder:  builder,
		opts:     opts,
		registry: opts.Registry,
		output:   cfg.Paths.Output,
		targets: watchTargets{
			trees: []string{abs(cfg.Paths.Posts), abs(cfg.Paths.Templates), abs(cfg.Paths.Images)},
			files: []string{abs(cfg.Paths.Stylesheet)},
		},
	}
}

// Addr returns the listening address once Run has started serving.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run builds the site, serves it and rebuilds on changes until ctx is
// canceled. A failing build does not stop the server; the error is reported
// on /healthz and on page requests until a build succeeds.
func (s *Server) Run(ctx context.Context) error {
	s.rebuild(ctx, "initial")

	ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(s.opts.Port)))
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to listen").
			WithContext("port", s.opts.Port).
			Build()
	}
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server error", logfields.Error(err))
		}
	}()
	slog.Info("Preview server listening", logfields.URL("http://"+ln.Addr().String()), logfields.Output(s.output))

	watcher, err := setupFileWatcher(s.targets)
	if err != nil {
		s.shutdown(srv)
		return errors.WrapError(err, errors.CategoryRuntime, "failed to start file watcher").Build()
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := newDebouncer(debounceDelay)
	done := s.startRebuildWorker(ctx, rebuildReq)

	var scheduler *Scheduler
	if s.opts.RebuildInterval > 0 {
		scheduler, err = NewScheduler()
		if err == nil {
			_, err = scheduler.SchedulePeriodicRebuild(s.opts.RebuildInterval, func() { requestRebuild(rebuildReq) })
		}
		if err != nil {
			s.shutdown(srv)
			return errors.WrapError(err, errors.CategoryRuntime, "failed to schedule periodic rebuild").Build()
		}
		scheduler.Start()
		slog.Info("Periodic rebuild scheduled", logfields.Duration(s.opts.RebuildInterval))
	}

	// Addr stays nil until changes are watched.
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down preview server")
			if scheduler != nil {
				if err := scheduler.Stop(); err != nil {
					slog.Warn("Scheduler shutdown error", logfields.Error(err))
				}
			}
			s.shutdown(srv)
			<-done
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				s.shutdown(srv)
				return nil
			}
			handleFileEvent(watcher, s.targets, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				s.shutdown(srv)
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) shutdown(srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
}

// startRebuildWorker processes rebuild requests one at a time until ctx is
// done. Requests arriving during a build collapse into one queued request
// because the channel has capacity one. The returned channel is closed when
// the worker exits.
func (s *Server) startRebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				s.rebuild(ctx, "change")
			}
		}
	}()
	return done
}

func (s *Server) rebuild(ctx context.Context, reason string) {
	slog.Info("Rebuilding site", slog.String("reason", reason))
	report, err := s.builder.Build(ctx)
	s.status.record(report, err)
	if err != nil {
		slog.Warn("Rebuild failed", logfields.Error(err))
	}
}
