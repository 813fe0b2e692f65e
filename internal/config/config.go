package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when -c is not given.
const DefaultPath = "mdsite.yaml"

// Default values applied to empty fields after loading.
const (
	DefaultTitle         = "Home"
	DefaultPostsDir      = "posts"
	DefaultTemplatesDir  = "templates"
	DefaultOutputDir     = "dist"
	DefaultStylesheet    = "style.css"
	DefaultImagesDir     = "images"
	DefaultNotifySubject = "mdsite.build.completed"
	DefaultPreviewPort   = 1313
)

// Config represents the application configuration. It is passed explicitly to
// the site builder; nothing in mdsite reads process-wide settings.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Paths   PathsConfig   `yaml:"paths"`
	Build   BuildConfig   `yaml:"build"`
	Logging LoggingConfig `yaml:"logging"`
	Notify  NotifyConfig  `yaml:"notify"`
	Preview PreviewConfig `yaml:"preview"`
}

// SiteConfig holds values rendered into pages.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url"` // prefix for every internal link, no trailing slash
}

// PathsConfig locates inputs and the output directory.
type PathsConfig struct {
	Posts      string `yaml:"posts"`
	Templates  string `yaml:"templates"`
	Output     string `yaml:"output"`
	Stylesheet string `yaml:"stylesheet"`
	Images     string `yaml:"images"`
}

// BuildConfig toggles optional build behavior.
type BuildConfig struct {
	ImageZoom *bool `yaml:"image_zoom,omitempty"`
}

// ImageZoomEnabled reports whether the image zoom script is injected (default true).
func (b BuildConfig) ImageZoomEnabled() bool {
	return b.ImageZoom == nil || *b.ImageZoom
}

// LoggingConfig selects log level and handler format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// NotifyConfig configures build-completed events. An empty NATSURL disables them.
type NotifyConfig struct {
	NATSURL string      `yaml:"nats_url"`
	Subject string      `yaml:"subject"`
	Retry   RetryConfig `yaml:"retry"`
}

// Enabled reports whether notifications should be published.
func (n NotifyConfig) Enabled() bool {
	return strings.TrimSpace(n.NATSURL) != ""
}

// PreviewConfig configures the local preview server.
type PreviewConfig struct {
	Port            int           `yaml:"port"`
	RebuildInterval time.Duration `yaml:"rebuild_interval"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
				Fatal().
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when the file does not
// exist and the path was not named explicitly by the user.
func LoadOrDefault(configPath string, explicit bool) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) && !explicit {
		loadEnvFiles()
		return Default(), nil
	}
	return Load(configPath)
}

// Parse decodes YAML configuration, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = DefaultTitle
	}
	c.Site.BaseURL = NormalizeBaseURL(c.Site.BaseURL)
	if c.Paths.Posts == "" {
		c.Paths.Posts = DefaultPostsDir
	}
	if c.Paths.Templates == "" {
		c.Paths.Templates = DefaultTemplatesDir
	}
	if c.Paths.Output == "" {
		c.Paths.Output = DefaultOutputDir
	}
	if c.Paths.Stylesheet == "" {
		c.Paths.Stylesheet = DefaultStylesheet
	}
	if c.Paths.Images == "" {
		c.Paths.Images = DefaultImagesDir
	}
	c.Paths.clean()
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
	if c.Notify.Subject == "" {
		c.Notify.Subject = DefaultNotifySubject
	}
	c.Notify.Retry.applyDefaults()
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPreviewPort
	}
}

// NormalizeBaseURL trims whitespace and trailing slashes so links can be
// joined as base + "/posts/...". A bare "/" becomes "".
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// ApplyOverrides applies non-empty CLI flag values on top of the loaded config.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.BaseURL != nil {
		c.Site.BaseURL = NormalizeBaseURL(*o.BaseURL)
	}
	if o.Output != "" {
		c.Paths.Output = o.Output
	}
	if o.Posts != "" {
		c.Paths.Posts = o.Posts
	}
	if o.Templates != "" {
		c.Paths.Templates = o.Templates
	}
	c.Paths.clean()
}

// clean drops trailing separators and redundant elements from every
// non-empty path, so "dist/" and "dist" name the same output.
func (p *PathsConfig) clean() {
	for _, path := range []*string{&p.Posts, &p.Templates, &p.Output, &p.Stylesheet, &p.Images} {
		if *path != "" {
			*path = filepath.Clean(*path)
		}
	}
}

// Overrides carries command-line values that take precedence over the file.
// BaseURL is a pointer so an explicit empty prefix can override the file.
type Overrides struct {
	BaseURL   *string
	Output    string
	Posts     string
	Templates string
}
