// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package config_test

import (
	"fmt"
	"maps"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antimetal/profiler/pkg/config"
)

// testFeature is a minimal pluggable feature config used across the
// package tests.
type testFeature struct {
	options map[string]string
}

func newTestFeature(_ *config.Config) config.FeatureConfig {
	return &testFeature{options: make(map[string]string)}
}

func (f *testFeature) HandleOption(name, value string) (bool, error) {
	if name == "bad" {
		return true, fmt.Errorf("bad value for test feature")
	}
	f.options[name] = value
	return true, nil
}

func (f *testFeature) Clone() config.FeatureConfig {
	return &testFeature{options: maps.Clone(f.options)}
}

func (f *testFeature) Validate(_ *config.Config) error {
	if f.options["invalid"] != "" {
		return fmt.Errorf("test feature is invalid")
	}
	return nil
}

// incompleteFeature embeds AbstractConfig without shadowing Clone, which
// must trip the programming-error panic in the base.
type incompleteFeature struct {
	config.AbstractConfig
}

func (f *incompleteFeature) HandleOption(_, _ string) (bool, error) { return false, nil }
func (f *incompleteFeature) Validate(_ *config.Config) error        { return nil }

func init() {
	config.AddConfigFactory("testfeature", newTestFeature)
}

func TestAddConfigFactory_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		config.AddConfigFactory("testfeature", newTestFeature)
	})
}

func TestRegisteredFeatures(t *testing.T) {
	assert.Contains(t, config.RegisteredFeatures(), "testfeature")
}

func TestHandleOption_FeatureRouting(t *testing.T) {
	cfg := config.New(logr.Discard())

	consumed, err := cfg.HandleOption("testfeature.threshold", "3")
	require.NoError(t, err)
	assert.True(t, consumed)

	fc, ok := cfg.Feature("testfeature")
	require.True(t, ok, "feature should be instantiated on first use")
	assert.Equal(t, "3", fc.(*testFeature).options["threshold"])

	// Second option reuses the existing instance.
	consumed, err = cfg.HandleOption("testfeature.mode", "fast")
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, "fast", fc.(*testFeature).options["mode"])
}

func TestHandleOption_FeatureParseError(t *testing.T) {
	cfg := config.New(logr.Discard())

	consumed, err := cfg.HandleOption("testfeature.bad", "x")
	assert.True(t, consumed)
	assert.Error(t, err)
}

func TestHandleOption_UnregisteredFeatureNotConsumed(t *testing.T) {
	cfg := config.New(logr.Discard())

	consumed, err := cfg.HandleOption("featureX.threshold", "3")
	require.NoError(t, err)
	assert.False(t, consumed, "unknown feature keys must fall through as unused")
	_, ok := cfg.Feature("featureX")
	assert.False(t, ok)
}

func TestHandleOption_UnknownKeyNotConsumed(t *testing.T) {
	cfg := config.New(logr.Discard())

	consumed, err := cfg.HandleOption("NOT_A_KEY", "x")
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestAbstractConfig_ClonePanics(t *testing.T) {
	f := &incompleteFeature{}
	assert.Panics(t, func() { f.Clone() })
}

func TestClone_FeatureDeepCopy(t *testing.T) {
	cfg := config.New(logr.Discard())
	_, err := cfg.HandleOption("testfeature.threshold", "3")
	require.NoError(t, err)

	clone := cfg.Clone()

	fc, ok := clone.Feature("testfeature")
	require.True(t, ok, "clone must carry the feature instance")
	assert.Equal(t, "3", fc.(*testFeature).options["threshold"])

	// Mutating the clone's feature must not affect the original.
	fc.(*testFeature).options["threshold"] = "99"
	orig, ok := cfg.Feature("testfeature")
	require.True(t, ok)
	assert.Equal(t, "3", orig.(*testFeature).options["threshold"])
}

func TestValidate_FeatureErrorsPropagate(t *testing.T) {
	cfg := config.New(logr.Discard())
	_, err := cfg.HandleOption("testfeature.invalid", "yes")
	require.NoError(t, err)

	assert.ErrorContains(t, cfg.Validate(), "test feature is invalid")
}
