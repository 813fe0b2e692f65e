// Package errors provides foundational, type-safe error primitives used across mdsite.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, markdown, template, build, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter mapping categories to process exit codes
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryMarkdown, "malformed metadata block").
//		WithContext("file", "posts/a.md").
//		Fatal().
//		Build()
package errors
