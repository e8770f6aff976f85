// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports a malformed value for a recognized option key.
// Parsing of remaining option lines continues after a ParseError.
type ParseError struct {
	Key   string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid value %q for option %s: %v", e.Value, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(key, value string, err error) error {
	return &ParseError{Key: key, Value: value, Err: err}
}

// parseDuration parses a duration string consisting of a count and a unit
// suffix, e.g. "100ms", "30s", "5min". "min" is accepted as an alias for
// minutes alongside the standard Go unit spellings. Negative durations
// are rejected.
func parseDuration(val string) (time.Duration, error) {
	s := val
	if strings.HasSuffix(s, "min") {
		s = strings.TrimSuffix(s, "min") + "m"
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("expected a duration with unit suffix (ms, s, min, ...)")
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative")
	}
	return d, nil
}

// parseBool parses the accepted truthy/falsy literal spellings.
func parseBool(val string) (bool, error) {
	switch strings.ToLower(val) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected one of true/false, yes/no, on/off, 1/0")
}

// parseInt parses a positive integer.
func parsePositiveInt(val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("expected an integer")
	}
	if n <= 0 {
		return 0, fmt.Errorf("expected a positive integer")
	}
	return n, nil
}

// parseNames splits a comma and/or whitespace separated token list.
// Empty tokens are dropped.
func parseNames(val string) []string {
	return strings.FieldsFunc(val, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// mergeNames unions tokens from val into the existing set. Applying the
// same value twice yields the same set as applying it once.
func mergeNames(set map[string]bool, val string) {
	for _, name := range parseNames(val) {
		set[name] = true
	}
}

// parsePercentiles parses a comma-separated list of integers, each of
// which must lie in [0, 100].
func parsePercentiles(val string) ([]int, error) {
	tokens := parseNames(val)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("expected a comma-separated list of percentiles")
	}
	percentiles := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		p, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("percentile %q is not an integer", tok)
		}
		if p < 0 || p > 100 {
			return nil, fmt.Errorf("percentile %d is outside [0, 100]", p)
		}
		percentiles = append(percentiles, p)
	}
	return percentiles, nil
}

// createDeviceMask parses a device list string into an enable bitmask
// with one bit per device index. "all" enables every supported device.
// Indices outside [0, deviceCount) are rejected.
func createDeviceMask(val string, deviceCount int) (uint64, error) {
	if strings.ToLower(val) == "all" {
		return (uint64(1) << deviceCount) - 1, nil
	}

	var mask uint64
	for _, tok := range parseNames(val) {
		dev, err := strconv.Atoi(tok)
		if err != nil {
			return 0, fmt.Errorf("device index %q is not an integer", tok)
		}
		if dev < 0 || dev >= deviceCount {
			return 0, fmt.Errorf("device index %d is outside [0, %d)", dev, deviceCount)
		}
		mask |= uint64(1) << dev
	}
	if mask == 0 {
		return 0, fmt.Errorf("device list is empty")
	}
	return mask, nil
}
