package config

import (
	"strings"
	"time"
)

// RetryBackoffMode enumerates supported backoff strategies for retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// Retry defaults for notification publishing.
const (
	DefaultRetryInitial    = 500 * time.Millisecond
	DefaultRetryMax        = 5 * time.Second
	DefaultRetryMaxRetries = 2
)

// NormalizeRetryBackoff converts arbitrary user input (case-insensitive) into a typed mode, returning empty string for unknown.
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RetryBackoffFixed):
		return RetryBackoffFixed
	case string(RetryBackoffLinear):
		return RetryBackoffLinear
	case string(RetryBackoffExponential):
		return RetryBackoffExponential
	default:
		return ""
	}
}

// RetryConfig controls retries of failed notification publishes.
type RetryConfig struct {
	Backoff    RetryBackoffMode `yaml:"backoff"`
	Initial    time.Duration    `yaml:"initial"`
	Max        time.Duration    `yaml:"max"`
	MaxRetries *int             `yaml:"max_retries,omitempty"` // nil means DefaultRetryMaxRetries
}

// Retries returns the number of retries after the first failed attempt.
func (r RetryConfig) Retries() int {
	if r.MaxRetries == nil {
		return DefaultRetryMaxRetries
	}
	return *r.MaxRetries
}

func (r *RetryConfig) applyDefaults() {
	r.Backoff = NormalizeRetryBackoff(string(r.Backoff))
	if r.Backoff == "" {
		r.Backoff = RetryBackoffLinear
	}
	if r.Initial == 0 {
		r.Initial = DefaultRetryInitial
	}
	if r.Max == 0 {
		r.Max = DefaultRetryMax
	}
}
