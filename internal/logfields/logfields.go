package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyPost       = "post"
	KeyCount      = "count"
	KeyOutput     = "output"
	KeyBaseURL    = "base_url"
	KeySubject    = "subject"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func File(name string) slog.Attr      { return slog.String(KeyFile, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Post(slug string) slog.Attr      { return slog.String(KeyPost, slug) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }
func BaseURL(u string) slog.Attr      { return slog.String(KeyBaseURL, u) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }

// Duration converts d to milliseconds under KeyDurationMS.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000.0)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
