// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// configcheck loads a profiler option file, validates it and prints the
// resolved configuration.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"github.com/antimetal/profiler/pkg/config/loader"
)

var (
	configPath string
	verbose    bool
)

func init() {
	flag.StringVar(&configPath, "config", "/etc/antimetal/profiler.conf",
		"Path to the profiler option file")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
}

func main() {
	flag.Parse()

	var logger logr.Logger
	if verbose {
		zapLog, _ := zap.NewDevelopment()
		logger = zapr.NewLogger(zapLog)
	} else {
		zapLog, _ := zap.NewProduction()
		logger = zapr.NewLogger(zapLog)
	}

	cfg, err := loader.LoadFile(configPath, logger)
	if err != nil {
		logger.Error(err, "configuration has errors", "path", configPath)
		if cfg != nil {
			cfg.Print(os.Stderr)
		}
		os.Exit(1)
	}

	fmt.Printf("Configuration %s is valid\n\n", configPath)
	cfg.Print(os.Stdout)
}
