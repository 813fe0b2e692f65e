package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
)

// WriteExample writes an example configuration to path.
func WriteExample(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	zoom := true
	retries := DefaultRetryMaxRetries
	example := Config{
		Site: SiteConfig{Title: DefaultTitle, BaseURL: ""},
		Paths: PathsConfig{
			Posts:      DefaultPostsDir,
			Templates:  DefaultTemplatesDir,
			Output:     DefaultOutputDir,
			Stylesheet: DefaultStylesheet,
			Images:     DefaultImagesDir,
		},
		Build:   BuildConfig{ImageZoom: &zoom},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Notify: NotifyConfig{
			Subject: DefaultNotifySubject,
			Retry: RetryConfig{
				Backoff:    RetryBackoffLinear,
				Initial:    DefaultRetryInitial,
				Max:        DefaultRetryMax,
				MaxRetries: &retries,
			},
		},
		Preview: PreviewConfig{Port: DefaultPreviewPort},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return nil
}
