package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, DefaultTitle, cfg.Site.Title)
	require.Empty(t, cfg.Site.BaseURL)
	require.Equal(t, DefaultPostsDir, cfg.Paths.Posts)
	require.Equal(t, DefaultTemplatesDir, cfg.Paths.Templates)
	require.Equal(t, DefaultOutputDir, cfg.Paths.Output)
	require.Equal(t, DefaultStylesheet, cfg.Paths.Stylesheet)
	require.True(t, cfg.Build.ImageZoomEnabled())
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
	require.False(t, cfg.Notify.Enabled())
	require.Equal(t, DefaultPreviewPort, cfg.Preview.Port)
	require.Equal(t, RetryBackoffLinear, cfg.Notify.Retry.Backoff)
	require.Equal(t, DefaultRetryMaxRetries, cfg.Notify.Retry.Retries())
	require.NoError(t, cfg.Validate())
}

func TestParse_FullDocument(t *testing.T) {
	doc := `
site:
  title: My Notes
  base_url: /page/
paths:
  posts: content
  output: public
build:
  image_zoom: false
logging:
  level: DEBUG
  format: json
notify:
  nats_url: nats://localhost:4222
  retry:
    backoff: Exponential
    initial: 250ms
    max_retries: 4
preview:
  port: 8080
  rebuild_interval: 30s
`
	cfg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.Equal(t, "My Notes", cfg.Site.Title)
	require.Equal(t, "/page", cfg.Site.BaseURL)
	require.Equal(t, "content", cfg.Paths.Posts)
	require.Equal(t, "public", cfg.Paths.Output)
	require.Equal(t, DefaultTemplatesDir, cfg.Paths.Templates)
	require.False(t, cfg.Build.ImageZoomEnabled())
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
	require.True(t, cfg.Notify.Enabled())
	require.Equal(t, DefaultNotifySubject, cfg.Notify.Subject)
	require.Equal(t, RetryBackoffExponential, cfg.Notify.Retry.Backoff)
	require.Equal(t, 250*time.Millisecond, cfg.Notify.Retry.Initial)
	require.Equal(t, DefaultRetryMax, cfg.Notify.Retry.Max)
	require.Equal(t, 4, cfg.Notify.Retry.Retries())
	require.Equal(t, 8080, cfg.Preview.Port)
	require.Equal(t, 30*time.Second, cfg.Preview.RebuildInterval)
}

func TestParse_EmptyDocumentUsesDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse(strings.NewReader("site:\n  titel: typo\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"output is cwd", func(c *Config) { c.Paths.Output = "." }, "paths.output"},
		{"output equals posts", func(c *Config) { c.Paths.Output = "posts/" }, "paths.output"},
		{"empty posts", func(c *Config) { c.Paths.Posts = "" }, "paths.posts"},
		{"bad port", func(c *Config) { c.Preview.Port = 70000 }, "preview.port"},
		{"negative interval", func(c *Config) { c.Preview.RebuildInterval = -time.Second }, "preview.rebuild_interval"},
		{"negative retry delay", func(c *Config) { c.Notify.Retry.Initial = -time.Second }, "notify.retry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryValidation))

			classified, _ := errors.AsClassified(err)
			field, _ := classified.Context().GetString("field")
			require.Equal(t, tt.field, field)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	cfg.Site.BaseURL = "/from-file"

	empty := ""
	cfg.ApplyOverrides(Overrides{BaseURL: &empty, Output: "out"})
	require.Empty(t, cfg.Site.BaseURL)
	require.Equal(t, "out", cfg.Paths.Output)
	require.Equal(t, DefaultPostsDir, cfg.Paths.Posts)

	base := "https://example.com/blog/"
	cfg.ApplyOverrides(Overrides{BaseURL: &base, Posts: "content", Templates: "tpl"})
	require.Equal(t, "https://example.com/blog", cfg.Site.BaseURL)
	require.Equal(t, "content", cfg.Paths.Posts)
	require.Equal(t, "tpl", cfg.Paths.Templates)
}

func TestPaths_TrailingSeparatorsCleaned(t *testing.T) {
	cfg, err := Parse(strings.NewReader("paths:\n  output: public/\n  posts: ./content/\n"))
	require.NoError(t, err)
	require.Equal(t, "public", cfg.Paths.Output)
	require.Equal(t, "content", cfg.Paths.Posts)

	cfg.ApplyOverrides(Overrides{Output: "site//out/", Templates: "tpl/"})
	require.Equal(t, filepath.Join("site", "out"), cfg.Paths.Output)
	require.Equal(t, "tpl", cfg.Paths.Templates)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("MDSITE_TEST_BASE", "/docs")
	path := filepath.Join(t.TempDir(), "mdsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  base_url: ${MDSITE_TEST_BASE}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/docs", cfg.Site.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultPath)

	cfg, err := LoadOrDefault(missing, false)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(missing, true)
	require.Error(t, err)
}

func TestWriteExample_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, WriteExample(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultPostsDir, cfg.Paths.Posts)
	require.True(t, cfg.Build.ImageZoomEnabled())
	require.Equal(t, DefaultRetryMaxRetries, cfg.Notify.Retry.Retries())

	err = WriteExample(path, false)
	require.Error(t, err)
	require.NoError(t, WriteExample(path, true))
}

func TestNormalizeLogLevel(t *testing.T) {
	require.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))

	_, err := ParseLogLevel("verbose")
	require.Error(t, err)
	lvl, err := ParseLogLevel("error")
	require.NoError(t, err)
	require.Equal(t, LogLevelError, lvl)
}
