// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package loader reads profiler option text, feeds it into a Config and
// republishes validated snapshots as the source changes. The config core
// itself performs no I/O; everything filesystem- and signal-related lives
// here.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"

	"github.com/antimetal/profiler/pkg/config"
)

// Apply feeds option text into cfg, one key/value pair at a time. Lines
// are trimmed, blank lines are skipped and everything after '#' is a
// comment. A malformed line or value does not stop parsing; the returned
// error aggregates every failure. Keys consumed by neither the config nor
// a registered feature are logged as unused, not treated as errors.
func Apply(cfg *config.Config, text string, logger logr.Logger) error {
	var errs []error
	for _, line := range strings.Split(text, "\n") {
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			errs = append(errs, fmt.Errorf("malformed option line %q, expected key = value", line))
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		consumed, err := cfg.HandleOption(key, value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !consumed {
			logger.Info("unused configuration option", "key", key)
		}
	}
	return multierr.Combine(errs...)
}

// LoadFile builds a Config from the option file at path and validates it.
// The returned error aggregates parse and validation failures; the config
// is returned either way so callers can inspect what was applied.
func LoadFile(path string, logger logr.Logger) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := config.New(logger)
	applyErr := Apply(cfg, string(data), logger)
	return cfg, multierr.Append(applyErr, cfg.Validate())
}
