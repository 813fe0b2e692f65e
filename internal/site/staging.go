package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/mdsite/internal/logfields"
)

const (
	// stageSuffix names the sibling directory a build writes into: <output>_stage.
	stageSuffix = "_stage"
	// prevSuffix names the sibling holding the old output during promotion.
	prevSuffix = ".prev"
)

// staging tracks the sibling directory a build writes into before promotion.
type staging struct {
	output string
	dir    string
	logger *slog.Logger
}

// beginStaging creates a fresh staging directory next to output. A leftover
// directory from an interrupted build is removed first. output is cleaned so
// "dist/" stages into "dist_stage", not inside the output.
func beginStaging(output string, logger *slog.Logger) (*staging, error) {
	output = filepath.Clean(output)
	dir := output + stageSuffix
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("remove stale staging directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	logger.Debug("Initialized staging directory", logfields.Path(dir), logfields.Output(output))
	return &staging{output: output, dir: dir, logger: logger}, nil
}

// finalize promotes the staging directory to the output location:
//  1. Move existing output (if any) to <output>.prev.
//  2. Rename staging -> output.
//  3. Remove the previous output.
//
// If step 2 fails the previous output is moved back.
func (s *staging) finalize() error {
	if s.dir == "" {
		return fmt.Errorf("no staging directory initialized")
	}
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("staging directory missing: %w", err)
	}

	prev := s.output + prevSuffix
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove previous backup: %w", err)
	}

	hadOutput := false
	if _, err := os.Stat(s.output); err == nil {
		if err := os.Rename(s.output, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
		hadOutput = true
	}

	if err := os.Rename(s.dir, s.output); err != nil {
		if hadOutput {
			if rerr := os.Rename(prev, s.output); rerr != nil {
				s.logger.Error("Failed to restore previous output", logfields.Path(prev), logfields.Error(rerr))
			}
		}
		return fmt.Errorf("promote staging: %w", err)
	}
	s.dir = ""

	if hadOutput {
		if err := os.RemoveAll(prev); err != nil {
			s.logger.Warn("Failed to remove previous output", logfields.Path(prev), logfields.Error(err))
		}
	}
	s.logger.Debug("Promoted staging directory", logfields.Output(s.output))
	return nil
}

// abort removes the staging directory after a failed build.
func (s *staging) abort() {
	if s == nil || s.dir == "" {
		return
	}
	dir := s.dir
	s.dir = "" // prevent double cleanup
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Warn("Failed to remove staging directory after abort", logfields.Path(dir), logfields.Error(err))
		return
	}
	s.logger.Debug("Removed staging directory after abort", logfields.Path(dir))
}
