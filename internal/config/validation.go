package config

import (
	"path/filepath"

	"git.home.luguber.info/inful/mdsite/internal/foundation/errors"
)

// Validate checks the configuration for values the builder cannot work with.
func (c *Config) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"paths.posts", c.Paths.Posts},
		{"paths.templates", c.Paths.Templates},
		{"paths.output", c.Paths.Output},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.ValidationError("required path is empty").WithContext("field", r.field).Build()
		}
	}

	out := filepath.Clean(c.Paths.Output)
	if out == "." || out == string(filepath.Separator) {
		return errors.ValidationError("output directory must not be the working directory or filesystem root").
			WithContext("field", "paths.output").
			WithContext("value", c.Paths.Output).
			Build()
	}
	if filepath.Clean(c.Paths.Posts) == out {
		return errors.ValidationError("output directory must differ from posts directory").
			WithContext("field", "paths.output").
			Build()
	}

	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.ValidationError("preview port out of range").
			WithContext("field", "preview.port").
			WithContext("value", c.Preview.Port).
			Build()
	}
	if c.Preview.RebuildInterval < 0 {
		return errors.ValidationError("rebuild interval must not be negative").
			WithContext("field", "preview.rebuild_interval").
			Build()
	}
	if r := c.Notify.Retry; r.Initial < 0 || r.Max < 0 || r.Retries() < 0 {
		return errors.ValidationError("notify retry settings must not be negative").
			WithContext("field", "notify.retry").
			Build()
	}
	return nil
}
