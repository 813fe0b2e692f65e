package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/mdsite/internal/config"
	"git.home.luguber.info/inful/mdsite/internal/logfields"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
	"git.home.luguber.info/inful/mdsite/internal/notify"
	"git.home.luguber.info/inful/mdsite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output    string  `short:"o" help:"Output directory (overrides paths.output)"`
	BaseURL   *string `name:"base-url" help:"Prefix for internal links (overrides site.base_url)"`
	Posts     string  `name:"posts" help:"Posts directory (overrides paths.posts)"`
	Templates string  `name:"templates" help:"Templates directory (overrides paths.templates)"`
}

func (b *BuildCmd) overrides() config.Overrides {
	return config.Overrides{BaseURL: b.BaseURL, Output: b.Output, Posts: b.Posts, Templates: b.Templates}
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(b.overrides())
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := RunBuild(ctx, cfg, g.Logger)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d posts into %s\n", report.Posts, report.Output)
	return nil
}

// RunBuild performs one build, publishing a notification when configured.
func RunBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*site.BuildReport, error) {
	builder := site.NewBuilder(cfg).SetLogger(logger)
	closeNotifier := attachNotifier(builder, cfg, logger, metrics.NoopRecorder{})
	defer closeNotifier()
	return builder.Build(ctx)
}

// connectNotifier dials the notification server; replaced in tests.
var connectNotifier = notify.Connect

// attachNotifier connects the NATS notifier when enabled and registers it
// as a build observer reporting to rec. A connection failure is logged and
// the build continues without notifications.
func attachNotifier(builder *site.Builder, cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) func() {
	if !cfg.Notify.Enabled() {
		return func() {}
	}
	n, err := connectNotifier(cfg.Notify)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("Build notifications disabled", logfields.URL(cfg.Notify.NATSURL), logfields.Error(err))
		return func() {}
	}
	n.SetLogger(logger).SetRecorder(rec)
	builder.AddObserver(n)
	return n.Close
}
