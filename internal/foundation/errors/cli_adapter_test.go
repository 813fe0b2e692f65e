package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config", err: ConfigError("missing templates dir").Build(), expected: 7},
		{name: "markdown", err: MarkdownError("malformed metadata").Build(), expected: 11},
		{name: "template", err: TemplateError("unknown placeholder").Build(), expected: 11},
		{name: "filesystem", err: FileSystemError("write failed").Build(), expected: 11},
		{name: "notify", err: NotifyError("publish failed").Build(), expected: 8},
		{name: "internal", err: InternalError("bug").Build(), expected: 10},
		{name: "unclassified error", err: errors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := errors.New("no such file or directory")
	err := WrapError(cause, CategoryTemplate, "template file missing").
		Fatal().
		WithContext("file", "templates/base.html").
		Build()

	quiet := NewCLIErrorAdapter(false, slog.Default())
	require.Equal(t,
		"Error: template file missing (file=templates/base.html): no such file or directory",
		quiet.FormatError(err))

	verbose := NewCLIErrorAdapter(true, slog.Default())
	require.Contains(t, verbose.FormatError(err), "[template:fatal]")

	require.Equal(t, "Error: plain", quiet.FormatError(errors.New("plain")))
	require.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logBuf, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	adapter := NewCLIErrorAdapter(false, logger)
	adapter.out = &out

	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("posts directory not found").WithContext("path", "posts").Build())

	require.Equal(t, 7, code)
	require.Contains(t, out.String(), "posts directory not found")
	require.Contains(t, logBuf.String(), "category=config")
}

func TestCLIErrorAdapter_HandleErrorNilIsNoop(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())
	called := false
	adapter.exit = func(int) { called = true }

	adapter.HandleError(nil)
	require.False(t, called)
}
