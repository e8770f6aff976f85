// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package config

import (
	"sort"
	"strings"
)

// FeatureConfig is the capability implemented by pluggable feature
// configuration sub-objects. Feature configs are owned by the Config they
// are attached to; the base machinery never inspects their internals, it
// only dispatches namespaced options to them and clones them
// polymorphically.
type FeatureConfig interface {
	// HandleOption consumes a single key/value option. The key has the
	// feature namespace prefix already stripped. It reports whether the
	// key was consumed; a consumed key with a malformed value returns a
	// non-nil error.
	HandleOption(name, value string) (bool, error)

	// Clone returns a deep, type-correct copy of the feature config.
	Clone() FeatureConfig

	// Validate checks the feature config for internal consistency after
	// all options have been applied.
	Validate(cfg *Config) error
}

// AbstractConfig owns the registry of feature config instances attached
// to a concrete configuration type. Concrete types embed it and fall back
// to HandleFeatureOption for keys they do not recognize themselves.
//
// Feature names are unique; each instance's concrete type is fixed at
// registration time by its factory, not by this type.
type AbstractConfig struct {
	features map[string]FeatureConfig
}

// Clone exists so that forgetting to shadow it in a concrete type fails
// loudly: the abstract base has no meaningful standalone state to copy, so
// cloning through it is a programming error.
func (a *AbstractConfig) Clone() FeatureConfig {
	panic("config: Clone called on AbstractConfig; only concrete config types may be cloned")
}

// HandleFeatureOption routes a namespaced "feature.key" option to the
// feature config owning that namespace, instantiating it on first use via
// its registered factory. It reports false for keys with no namespace or
// with no matching factory, so callers can surface them as unused.
func (a *AbstractConfig) HandleFeatureOption(cfg *Config, name, value string) (bool, error) {
	feature, key, found := strings.Cut(name, ".")
	if !found || feature == "" || key == "" {
		return false, nil
	}

	fc, exists := a.features[feature]
	if !exists {
		factory, registered := GetConfigFactory(feature)
		if !registered {
			return false, nil
		}
		fc = factory(cfg)
		if a.features == nil {
			a.features = make(map[string]FeatureConfig)
		}
		a.features[feature] = fc
	}

	return fc.HandleOption(key, value)
}

// Feature returns the feature config instance registered under name, if
// one has been instantiated.
func (a *AbstractConfig) Feature(name string) (FeatureConfig, bool) {
	fc, exists := a.features[name]
	return fc, exists
}

// FeatureNames returns the names of all instantiated feature configs in
// sorted order.
func (a *AbstractConfig) FeatureNames() []string {
	names := make([]string, 0, len(a.features))
	for name := range a.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CloneFeaturesInto deep-copies every instantiated feature config into
// target, each through its own Clone. Existing feature instances on the
// target are replaced.
func (a *AbstractConfig) CloneFeaturesInto(target *AbstractConfig) {
	if len(a.features) == 0 {
		return
	}
	if target.features == nil {
		target.features = make(map[string]FeatureConfig, len(a.features))
	}
	for name, fc := range a.features {
		target.features[name] = fc.Clone()
	}
}

// validateFeatures runs Validate on every instantiated feature config in
// deterministic order and returns the first batch of errors.
func (a *AbstractConfig) validateFeatures(cfg *Config) []error {
	var errs []error
	for _, name := range a.FeatureNames() {
		if err := a.features[name].Validate(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
