package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrFileExists is returned by WriteFile when the target exists and force is false.
var ErrFileExists = errors.New("file already exists")

// WriteFile writes content to relativePath under root.
//
// The function ensures:
//   - The output path stays under root (no path traversal)
//   - Parent directories are created if needed
//   - Existing files are only replaced when force is set
func WriteFile(root, relativePath, content string, force bool) (string, error) {
	if root == "" {
		return "", errors.New("root directory is required")
	}
	if relativePath == "" {
		return "", errors.New("output path is required")
	}

	cleanRel := filepath.Clean(relativePath)
	if filepath.IsAbs(cleanRel) || strings.HasPrefix(cleanRel, "..") {
		return "", errors.New("output path must be relative to root")
	}

	fullPath := filepath.Join(root, cleanRel)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	// #nosec G304 -- fullPath is validated to stay under root.
	file, err := os.OpenFile(fullPath, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrFileExists, fullPath)
		}
		return "", fmt.Errorf("write output file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := file.WriteString(content); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	return fullPath, nil
}
