package commands

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/mdsite/internal/config"
)

// logLevelEnv overrides the configured log level; -v still wins.
const logLevelEnv = "MDSITE_LOG_LEVEL"

// parseLogLevel resolves the effective level: -v, then MDSITE_LOG_LEVEL,
// then the configured level (info when empty).
func parseLogLevel(verbose bool, configured config.LogLevel) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	if env := os.Getenv(logLevelEnv); env != "" {
		if lvl, err := config.ParseLogLevel(env); err == nil {
			return lvl.SlogLevel()
		}
	}
	return config.NormalizeLogLevel(string(configured)).SlogLevel()
}

func newLogger(level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
