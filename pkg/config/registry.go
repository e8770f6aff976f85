// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// FeatureFactory creates a feature config instance bound to the Config
// that owns it. The base config passed in is read-only from the factory's
// perspective.
type FeatureFactory func(cfg *Config) FeatureConfig

var (
	factoryMu      sync.RWMutex
	factories      = make(map[string]FeatureFactory)
	registryLogger = stdr.New(log.New(os.Stderr, "[config.registry] ", log.LstdFlags))
)

// AddConfigFactory adds a feature config factory to the global registry
// under name. Options prefixed with "name." are routed to an instance
// created by factory.
//
// This function is usually called during package initialization (typically
// in init() functions) so that all feature factories are registered before
// any config text is parsed. It panics if a factory for the given name is
// already registered.
func AddConfigFactory(name string, factory FeatureFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("Config factory for %s already registered", name))
	}
	factories[name] = factory
	registryLogger.V(1).Info("registered feature config factory", "feature", name)
}

// GetConfigFactory retrieves the factory registered under name.
func GetConfigFactory(name string) (FeatureFactory, bool) {
	factoryMu.RLock()
	defer factoryMu.RUnlock()

	factory, exists := factories[name]
	return factory, exists
}

// RegisteredFeatures returns the names of all registered feature factories.
func RegisteredFeatures() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// SetRegistryLogger allows setting a custom logger for the registry.
// This should be called before any factories are registered.
func SetRegistryLogger(logger logr.Logger) {
	registryLogger = logger
}
