package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
	"git.home.luguber.info/inful/mdsite/internal/logfields"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
	"git.home.luguber.info/inful/mdsite/internal/preview"
	"git.home.luguber.info/inful/mdsite/internal/site"
)

// PreviewCmd serves the site locally and rebuilds it on changes.
type PreviewCmd struct {
	Port            int           `name:"port" help:"Preview server port (overrides preview.port)"`
	Output          string        `short:"o" name:"output" help:"Output directory (defaults to a temporary directory)"`
	RebuildInterval time.Duration `name:"rebuild-interval" help:"Also rebuild periodically (overrides preview.rebuild_interval)"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if p.Port != 0 {
		cfg.Preview.Port = p.Port
	}
	if p.RebuildInterval != 0 {
		cfg.Preview.RebuildInterval = p.RebuildInterval
	}

	// Pages are served from the server root, so links must be root-relative.
	if cfg.Site.BaseURL != "" {
		slog.Info("Ignoring site.base_url for preview", logfields.BaseURL(cfg.Site.BaseURL))
		cfg.Site.BaseURL = ""
	}

	if p.Output != "" {
		cfg.Paths.Output = filepath.Clean(p.Output)
	} else {
		tmp, err := os.MkdirTemp("", "mdsite-preview-*")
		if err != nil {
			return errors.FileSystemError("failed to create temporary output").WithCause(err).Build()
		}
		defer func() {
			if err := os.RemoveAll(tmp); err != nil {
				slog.Warn("failed to remove temp output", logfields.Path(tmp), logfields.Error(err))
			}
		}()
		cfg.Paths.Output = filepath.Join(tmp, "site")
		fmt.Println("Preview output directory:", cfg.Paths.Output)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rec := metrics.NewPrometheusRecorder(reg)
	builder := site.NewBuilder(cfg).
		SetLogger(g.Logger).
		SetRecorder(rec)
	closeNotifier := attachNotifier(builder, cfg, g.Logger, rec)
	defer closeNotifier()

	fmt.Printf("Serving on http://localhost:%d\n", cfg.Preview.Port)
	return preview.NewServer(builder, preview.Options{
		Port:            cfg.Preview.Port,
		RebuildInterval: cfg.Preview.RebuildInterval,
		Registry:        reg,
	}).Run(ctx)
}
