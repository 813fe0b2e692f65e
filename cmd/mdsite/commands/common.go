package commands

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdsite/internal/config"
	"git.home.luguber.info/inful/mdsite/internal/logfields"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: mdsite.yaml, optional)" placeholder:"FILE"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site from the posts directory"`
	Init    InitCmd    `cmd:"" help:"Scaffold a configuration file, templates, stylesheet and a sample post"`
	Preview PreviewCmd `cmd:"" help:"Build, serve and rebuild the site on changes"`
}

// AfterApply runs after flag parsing; sets up logging before any config is read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(parseLogLevel(c.Verbose, ""), config.LogFormatText))
	return nil
}

// configPath returns the configuration path and whether the user named it.
func (c *CLI) configPath() (string, bool) {
	if c.Config == "" {
		return config.DefaultPath, false
	}
	return c.Config, true
}

// loadConfig loads the configuration and re-applies logging with its settings.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	path, explicit := c.configPath()
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return nil, err
	}
	logger := newLogger(parseLogLevel(c.Verbose, cfg.Logging.Level), cfg.Logging.Format)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	if fileExists(path) {
		slog.Debug("Configuration loaded", logfields.Path(path))
	} else {
		slog.Debug("No configuration file; using defaults", logfields.Path(path))
	}
	return cfg, nil
}
