// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package config

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"
)

// Option keys recognized by Config. Keys are case-sensitive; keys owned by
// feature configs are namespaced as "feature.key".
const (
	keyEvents                      = "EVENTS"
	keyMetrics                     = "METRICS"
	keyPercentiles                 = "PERCENTILES"
	keySamplePeriod                = "SAMPLE_PERIOD"
	keyMultiplexPeriod             = "MULTIPLEX_PERIOD"
	keyReportPeriod                = "REPORT_PERIOD"
	keySamplesPerReport            = "SAMPLES_PER_REPORT"
	keyEventsLogFile               = "EVENTS_LOG_FILE"
	keyEventsEnabledDevices        = "EVENTS_ENABLED_DEVICES"
	keyEventsDuration              = "EVENTS_DURATION"
	keyEventsMaxProfilersPerDevice = "EVENTS_MAX_PROFILERS_PER_DEVICE"
	keyActivitiesEnabled           = "ACTIVITIES_ENABLED"
	keyActivitiesLogFile           = "ACTIVITIES_LOG_FILE"
	keyActivitiesMaxBufferSizeMB   = "ACTIVITIES_MAX_BUFFER_SIZE_MB"
	keyActivitiesWarmupPeriod      = "ACTIVITIES_WARMUP_PERIOD"
	keyActivitiesDuration          = "ACTIVITIES_DURATION"
	keyActivitiesIterations        = "ACTIVITIES_ITERATIONS"
	keyActivitiesIterationsTarget  = "ACTIVITIES_ITERATIONS_TARGET"
	keyActivitiesFilter            = "ACTIVITIES_FILTER"
	keyActivitiesMinOpCount        = "ACTIVITIES_MIN_OP_COUNT"
	keyActivitiesMinGPUOpCount     = "ACTIVITIES_MIN_GPU_OP_COUNT"
	keyRequestTimestamp            = "REQUEST_TIMESTAMP"
	keyVerboseLogLevel             = "VERBOSE_LOG_LEVEL"
	keyVerboseLogModules           = "VERBOSE_LOG_MODULES"
	keyEnableSigUsr2               = "ENABLE_SIGUSR2"
)

const (
	defaultSamplePeriod              = time.Second
	defaultMultiplexPeriod           = time.Second
	defaultReportPeriod              = time.Second
	defaultSamplesPerReport          = 1
	defaultMaxProfilersPerDevice     = 1
	defaultActivitiesWarmupDuration  = 5 * time.Second
	defaultActivitiesMaxBufferSizeMB = 128
	defaultActivitiesOnDemandDur     = 15 * time.Second
	defaultDeviceCount               = 8
	defaultVerboseLogLevel           = -1

	// On-demand trigger messages relayed through the daemon can arrive
	// late or duplicated. Requests older than this are ignored even if
	// their duration window has not formally expired.
	requestMaxAge = 10 * time.Second
)

func defaultPercentiles() []int {
	return []int{5, 25, 50, 75, 95}
}

// Config is the concrete profiling configuration. It is built with
// defaults, mutated field by field through setters or HandleOption, then
// checked once with Validate. A single instance is not safe for concurrent
// mutation; construct it single-writer and share it read-only, or Clone it.
type Config struct {
	AbstractConfig

	logger logr.Logger

	verboseLogLevel   int
	verboseLogModules []string

	// Event profiler. These settings are also supported in on-demand mode.
	samplePeriod     time.Duration
	multiplexPeriod  time.Duration
	reportPeriod     time.Duration
	samplesPerReport int
	eventNames       map[string]bool
	metricNames      map[string]bool

	eventProfilerOnDemandDuration time.Duration
	// Last on-demand request (monotonic clock).
	eventProfilerOnDemandTimestamp time.Time

	maxProfilersPerDevice int

	// These settings can not be changed on-demand.
	eventLogFile           string
	eventReportPercentiles []int
	deviceCount            int
	deviceMask             uint64

	// Activity profiler. These settings are all on-demand.
	activityProfilerEnabled   bool
	activitiesLogFile         string
	activitiesMaxBufferSizeMB int
	activitiesWarmupDuration  time.Duration

	// Profile for a specified duration or iteration count, driven by the
	// external API.
	activitiesOnDemandDuration    time.Duration
	activitiesOnDemandDurationSet bool
	activitiesIterations          int
	activitiesIterationsTarget    string
	activitiesFilter              []string
	activitiesMinOpCount          int
	activitiesMinGPUOpCount       int
	// Last activity profiler request (monotonic clock).
	activitiesOnDemandTimestamp time.Time

	// Synchronized start timestamp (wall clock, for cross-process
	// coordination; never mixed with the monotonic on-demand timestamps).
	requestTimestamp time.Time

	// Enable profiling via SIGUSR2.
	enableSigUsr2 bool
}

// New returns a Config populated with defaults. The logger is used to
// report the documented auto-corrections applied by Validate.
func New(logger logr.Logger) *Config {
	return &Config{
		logger:                     logger,
		verboseLogLevel:            defaultVerboseLogLevel,
		samplePeriod:               defaultSamplePeriod,
		multiplexPeriod:            defaultMultiplexPeriod,
		reportPeriod:               defaultReportPeriod,
		samplesPerReport:           defaultSamplesPerReport,
		eventNames:                 make(map[string]bool),
		metricNames:                make(map[string]bool),
		maxProfilersPerDevice:      defaultMaxProfilersPerDevice,
		eventReportPercentiles:     defaultPercentiles(),
		deviceCount:                defaultDeviceCount,
		deviceMask:                 (uint64(1) << defaultDeviceCount) - 1,
		activitiesMaxBufferSizeMB:  defaultActivitiesMaxBufferSizeMB,
		activitiesWarmupDuration:   defaultActivitiesWarmupDuration,
		activitiesOnDemandDuration: defaultActivitiesOnDemandDur,
		enableSigUsr2:              true,
	}
}

// Clone returns a full deep copy including all feature config instances.
// Mutating the clone, or any of its feature configs, does not affect the
// source. The clone shares no ownership with the source and is safe to
// hand to another goroutine.
func (c *Config) Clone() *Config {
	clone := *c
	clone.AbstractConfig = AbstractConfig{}
	clone.verboseLogModules = slices.Clone(c.verboseLogModules)
	clone.eventNames = maps.Clone(c.eventNames)
	clone.metricNames = maps.Clone(c.metricNames)
	clone.eventReportPercentiles = slices.Clone(c.eventReportPercentiles)
	clone.activitiesFilter = slices.Clone(c.activitiesFilter)
	c.CloneFeaturesInto(&clone.AbstractConfig)
	return &clone
}

// AlignUp rounds duration up to the next multiple of alignment. An exact
// multiple still advances to the next boundary, so the result is always
// strictly greater than duration. Panics if alignment is not positive.
func AlignUp(duration, alignment time.Duration) time.Duration {
	if alignment <= 0 {
		panic("config: AlignUp called with non-positive alignment")
	}
	duration += alignment
	return duration - duration%alignment
}

// alignPeriod rounds period up to a multiple of alignment, leaving exact
// multiples unchanged.
func alignPeriod(period, alignment time.Duration) time.Duration {
	if period%alignment == 0 {
		return period
	}
	return AlignUp(period, alignment)
}

// HandleOption dispatches a single pre-trimmed key/value pair. It reports
// whether the key was consumed; a recognized key with a malformed value is
// consumed but returns a ParseError. Unrecognized keys fall through to the
// feature configs registered via AddConfigFactory; a key consumed by
// neither reports false so the caller can surface it as unused.
func (c *Config) HandleOption(name, value string) (bool, error) {
	switch name {
	case keyEvents:
		mergeNames(c.eventNames, value)
	case keyMetrics:
		mergeNames(c.metricNames, value)
	case keyPercentiles:
		percentiles, err := parsePercentiles(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.eventReportPercentiles = percentiles
	case keySamplePeriod:
		d, err := parseDuration(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.samplePeriod = d
	case keyMultiplexPeriod:
		d, err := parseDuration(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.multiplexPeriod = d
	case keyReportPeriod:
		d, err := parseDuration(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.SetReportPeriod(d)
	case keySamplesPerReport:
		n, err := parsePositiveInt(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.samplesPerReport = n
	case keyEventsLogFile:
		c.eventLogFile = value
	case keyEventsEnabledDevices:
		mask, err := createDeviceMask(value, c.deviceCount)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.deviceMask = mask
	case keyEventsDuration:
		d, err := parseDuration(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.eventProfilerOnDemandDuration = d
		// An on-demand duration option marks the start of a new window.
		c.eventProfilerOnDemandTimestamp = time.Now()
	case keyEventsMaxProfilersPerDevice:
		n, err := parsePositiveInt(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.maxProfilersPerDevice = n
	case keyActivitiesEnabled:
		b, err := parseBool(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.activityProfilerEnabled = b
	case keyActivitiesLogFile:
		c.activitiesLogFile = value
	case keyActivitiesMaxBufferSizeMB:
		n, err := parsePositiveInt(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.activitiesMaxBufferSizeMB = n
	case keyActivitiesWarmupPeriod:
		d, err := parseDuration(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.activitiesWarmupDuration = d
	case keyActivitiesDuration:
		d, err := parseDuration(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.SetActivitiesOnDemandDuration(d)
	case keyActivitiesIterations:
		n, err := parsePositiveInt(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.activitiesIterations = n
	case keyActivitiesIterationsTarget:
		c.activitiesIterationsTarget = value
	case keyActivitiesFilter:
		c.activitiesFilter = parseNames(value)
	case keyActivitiesMinOpCount:
		n, err := parsePositiveInt(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.activitiesMinOpCount = n
	case keyActivitiesMinGPUOpCount:
		n, err := parsePositiveInt(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.activitiesMinGPUOpCount = n
	case keyRequestTimestamp:
		msecs, err := strconv.ParseInt(value, 10, 64)
		if err != nil || msecs <= 0 {
			return true, parseErr(name, value, fmt.Errorf("expected unix milliseconds"))
		}
		c.requestTimestamp = time.UnixMilli(msecs)
	case keyVerboseLogLevel:
		level, err := strconv.Atoi(value)
		if err != nil {
			return true, parseErr(name, value, fmt.Errorf("expected an integer"))
		}
		c.verboseLogLevel = level
	case keyVerboseLogModules:
		c.verboseLogModules = parseNames(value)
	case keyEnableSigUsr2:
		b, err := parseBool(value)
		if err != nil {
			return true, parseErr(name, value, err)
		}
		c.enableSigUsr2 = b
	default:
		return c.HandleFeatureOption(c, name, value)
	}
	return true, nil
}

// Validate checks the assembled configuration for cross-field consistency.
// The two documented auto-corrections are applied here: the multiplex and
// report periods are aligned up to sampling boundaries, and
// samplesPerReport is clamped into [1, reportPeriod/samplePeriod]. Every
// other violated invariant is reported; the returned error aggregates all
// of them, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if c.samplePeriod <= 0 {
		errs = append(errs, fmt.Errorf("sample period must be positive, got %v", c.samplePeriod))
	} else {
		if c.multiplexPeriod < c.samplePeriod {
			c.logger.Info("multiplex period raised to sample period",
				"multiplex_period", c.multiplexPeriod, "sample_period", c.samplePeriod)
			c.multiplexPeriod = c.samplePeriod
		}
		if aligned := alignPeriod(c.multiplexPeriod, c.samplePeriod); aligned != c.multiplexPeriod {
			c.logger.Info("multiplex period aligned to sample period boundary",
				"multiplex_period", c.multiplexPeriod, "aligned", aligned)
			c.multiplexPeriod = aligned
		}

		alignment := c.samplePeriod
		if c.multiplexPeriod > c.samplePeriod {
			alignment = c.multiplexPeriod
		}
		if c.reportPeriod < alignment {
			c.logger.Info("report period raised to alignment period",
				"report_period", c.reportPeriod, "alignment", alignment)
			c.reportPeriod = alignment
		}
		if aligned := alignPeriod(c.reportPeriod, alignment); aligned != c.reportPeriod {
			c.logger.Info("report period aligned to multiplex boundary",
				"report_period", c.reportPeriod, "aligned", aligned)
			c.reportPeriod = aligned
		}

		maxSamplesPerReport := int(c.reportPeriod / c.samplePeriod)
		if c.samplesPerReport > maxSamplesPerReport {
			c.logger.Info("samples per report clamped",
				"samples_per_report", c.samplesPerReport, "max", maxSamplesPerReport)
			c.samplesPerReport = maxSamplesPerReport
		}
		if c.samplesPerReport < 1 {
			c.logger.Info("samples per report clamped", "samples_per_report", c.samplesPerReport, "min", 1)
			c.samplesPerReport = 1
		}
	}

	for _, p := range c.eventReportPercentiles {
		if p < 0 || p > 100 {
			errs = append(errs, fmt.Errorf("percentile %d is outside [0, 100]", p))
		}
	}

	if c.deviceMask == 0 {
		errs = append(errs, fmt.Errorf("event profiler device mask is empty"))
	}

	if c.activitiesWarmupDuration < 0 {
		errs = append(errs, fmt.Errorf("activities warmup duration must not be negative, got %v",
			c.activitiesWarmupDuration))
	} else if c.activitiesOnDemandDuration > 0 && c.activitiesWarmupDuration >= c.activitiesOnDemandDuration {
		errs = append(errs, fmt.Errorf("activities warmup duration %v must be less than on-demand duration %v",
			c.activitiesWarmupDuration, c.activitiesOnDemandDuration))
	}

	if c.activitiesIterations > 0 && c.activitiesOnDemandDurationSet {
		errs = append(errs, fmt.Errorf("%s and %s are mutually exclusive triggers",
			keyActivitiesIterations, keyActivitiesDuration))
	}

	errs = append(errs, c.validateFeatures(c)...)

	return multierr.Combine(errs...)
}

// Logging targets

// EventLogFile is the file event profiler samples are logged to.
func (c *Config) EventLogFile() string { return c.eventLogFile }

// ActivitiesLogFile is the file the activity trace is logged to.
func (c *Config) ActivitiesLogFile() string { return c.activitiesLogFile }

// Event sampling

// SamplePeriod is how often hardware counters are read. If all requested
// counters cannot be collected simultaneously, multiple samples are needed
// to cover them - see MultiplexPeriod.
func (c *Config) SamplePeriod() time.Duration { return c.samplePeriod }

func (c *Config) SetSamplePeriod(period time.Duration) {
	c.samplePeriod = period
}

// MultiplexPeriod is the counter time-sharing period used when more
// counters are requested than can be read simultaneously. Frequent
// multiplexing has a large performance impact; keep this at 1s or above.
func (c *Config) MultiplexPeriod() time.Duration { return c.multiplexPeriod }

func (c *Config) SetMultiplexPeriod(period time.Duration) {
	c.multiplexPeriod = period
}

// ReportPeriod is how often samples are reported. Several samples can be
// dispatched per report, see SamplesPerReport.
func (c *Config) ReportPeriod() time.Duration { return c.reportPeriod }

// SetReportPeriod stores the requested period aligned up to a multiple of
// the current sample period. Validate re-aligns it if multiplexing changes
// the reporting boundary, and re-validates SamplesPerReport against the
// new ratio.
func (c *Config) SetReportPeriod(period time.Duration) {
	if c.samplePeriod > 0 {
		if aligned := alignPeriod(period, c.samplePeriod); aligned != period {
			c.logger.Info("report period aligned to sample period boundary",
				"report_period", period, "aligned", aligned)
			period = aligned
		}
	}
	c.reportPeriod = period
}

// SamplesPerReport is the number of samples dispatched each report period.
// Must be in the range [1, report period / sample period]: aggregation is
// supported but not interpolation.
func (c *Config) SamplesPerReport() int { return c.samplesPerReport }

func (c *Config) SetSamplesPerReport(count int) {
	c.samplesPerReport = count
}

// Event selection

// EventNames returns the names of events to collect, sorted.
func (c *Config) EventNames() []string { return sortedKeys(c.eventNames) }

// AddEvents merges additional events into the requested set.
func (c *Config) AddEvents(names ...string) {
	for _, name := range names {
		c.eventNames[name] = true
	}
}

// MetricNames returns the names of metrics to collect, sorted.
func (c *Config) MetricNames() []string { return sortedKeys(c.metricNames) }

// AddMetrics merges additional metrics into the requested set.
func (c *Config) AddMetrics(names ...string) {
	for _, name := range names {
		c.metricNames[name] = true
	}
}

// Percentiles are the event report percentiles, each in [0, 100].
func (c *Config) Percentiles() []int { return c.eventReportPercentiles }

// Devices

// DeviceCount is the number of devices covered by the enable bitmask.
func (c *Config) DeviceCount() int { return c.deviceCount }

// SetDeviceCount sets the supported device count and resets the enable
// mask to all devices. The sampling engine injects the probed count here
// before options are parsed.
func (c *Config) SetDeviceCount(count int) {
	c.deviceCount = count
	c.deviceMask = (uint64(1) << count) - 1
}

// DeviceMask is the per-device enable bitmask, one bit per device index.
func (c *Config) DeviceMask() uint64 { return c.deviceMask }

// EventProfilerEnabledForDevice reports whether profiling is enabled for
// the given device index.
func (c *Config) EventProfilerEnabledForDevice(dev uint32) bool {
	return c.deviceMask&(uint64(1)<<dev) != 0
}

// Event profiler on-demand

// EventProfilerOnDemandDuration is how long to profile before reverting
// to the base config.
func (c *Config) EventProfilerOnDemandDuration() time.Duration {
	return c.eventProfilerOnDemandDuration
}

func (c *Config) SetEventProfilerOnDemandDuration(duration time.Duration) {
	c.eventProfilerOnDemandDuration = duration
	c.eventProfilerOnDemandTimestamp = time.Now()
}

// EventProfilerOnDemandStartTime is the start of the current event
// profiler on-demand window (monotonic clock).
func (c *Config) EventProfilerOnDemandStartTime() time.Time {
	return c.eventProfilerOnDemandTimestamp
}

// EventProfilerOnDemandEndTime is the end of the current event profiler
// on-demand window.
func (c *Config) EventProfilerOnDemandEndTime() time.Time {
	return c.eventProfilerOnDemandTimestamp.Add(c.eventProfilerOnDemandDuration)
}

// EventProfilerOnDemandActive reports whether now lies within the current
// event profiler on-demand window [start, start+duration).
func (c *Config) EventProfilerOnDemandActive(now time.Time) bool {
	return withinWindow(now, c.eventProfilerOnDemandTimestamp, c.eventProfilerOnDemandDuration)
}

// MaxProfilersPerDevice limits the number of event profiler instances per
// device. Too many profilers on one device overload the driver and make
// sample collection impossible; the limit is enforced in coordination
// with the daemon.
func (c *Config) MaxProfilersPerDevice() int { return c.maxProfilersPerDevice }

// Activity profiler

// ActivityProfilerEnabled reports whether the activity profiler is
// enabled at all.
func (c *Config) ActivityProfilerEnabled() bool { return c.activityProfilerEnabled }

// ActivitiesMaxBufferSizeMB is the activity trace buffer cap in MiB.
func (c *Config) ActivitiesMaxBufferSizeMB() int { return c.activitiesMaxBufferSizeMB }

// ActivitiesWarmupDuration is how long the activity profiler warms up
// before the trace window opens.
func (c *Config) ActivitiesWarmupDuration() time.Duration { return c.activitiesWarmupDuration }

// ActivitiesOnDemandDuration is how long to trace.
func (c *Config) ActivitiesOnDemandDuration() time.Duration {
	return c.activitiesOnDemandDuration
}

func (c *Config) SetActivitiesOnDemandDuration(duration time.Duration) {
	c.activitiesOnDemandDuration = duration
	c.activitiesOnDemandDurationSet = true
}

// ActivitiesOnDemandDurationDefault is the trace duration used when no
// explicit duration or iteration trigger was requested.
func (c *Config) ActivitiesOnDemandDurationDefault() time.Duration {
	return defaultActivitiesOnDemandDur
}

// ActivitiesIterations traces for this many iterations instead of a fixed
// duration, determined by the external API.
func (c *Config) ActivitiesIterations() int { return c.activitiesIterations }

// ActivitiesIterationsTarget is the name whose iterations are counted.
func (c *Config) ActivitiesIterationsTarget() string { return c.activitiesIterationsTarget }

// ActivitiesFilter restricts on-demand tracing to matching names.
func (c *Config) ActivitiesFilter() []string { return c.activitiesFilter }

// ActivitiesMinOpCount only profiles workloads with at least this many
// operators. Controlled by the external API.
func (c *Config) ActivitiesMinOpCount() int { return c.activitiesMinOpCount }

// ActivitiesMinGPUOpCount only profiles workloads with at least this many
// GPU operators. Controlled by the external API.
func (c *Config) ActivitiesMinGPUOpCount() int { return c.activitiesMinGPUOpCount }

// ActivityProfilerRequestReceivedTime is the start of the current
// activity on-demand window (monotonic clock).
func (c *Config) ActivityProfilerRequestReceivedTime() time.Time {
	return c.activitiesOnDemandTimestamp
}

// UpdateActivityProfilerRequestReceivedTime stamps the activity on-demand
// timestamp with the current clock value, marking the start of a new
// on-demand window. This is the only mutator of that timestamp.
func (c *Config) UpdateActivityProfilerRequestReceivedTime() {
	c.activitiesOnDemandTimestamp = time.Now()
}

// ActivityProfilerOnDemandActive reports whether now lies within the
// current activity on-demand window [start, start+duration).
func (c *Config) ActivityProfilerOnDemandActive(now time.Time) bool {
	return withinWindow(now, c.activitiesOnDemandTimestamp, c.activitiesOnDemandDuration)
}

// Cross-cutting

// RequestTimestamp is the synchronized (wall clock) time the on-demand
// request was initiated at.
func (c *Config) RequestTimestamp() time.Time { return c.requestTimestamp }

// HasRequestTimestamp reports whether a synchronized request timestamp
// was supplied.
func (c *Config) HasRequestTimestamp() bool { return !c.requestTimestamp.IsZero() }

// MaxRequestAge is the maximum age beyond which any on-demand request is
// treated as stale even if its duration window has not formally expired.
func (c *Config) MaxRequestAge() time.Duration { return requestMaxAge }

// RequestStale reports whether the synchronized request timestamp is
// older than MaxRequestAge relative to now. Stale requests must not be
// acted upon; they are delayed or duplicate daemon trigger messages.
func (c *Config) RequestStale(now time.Time) bool {
	return c.HasRequestTimestamp() && now.Sub(c.requestTimestamp) > c.MaxRequestAge()
}

// VerboseLogLevel controls verbose logging. Messages log if the level is
// >= the verbosity of the message. The default is -1, so level 0 messages
// log by default.
func (c *Config) VerboseLogLevel() int { return c.verboseLogLevel }

// VerboseLogModules are the modules verbose logging is enabled for.
// If empty, logging is enabled for all modules.
func (c *Config) VerboseLogModules() []string { return c.verboseLogModules }

// SigUsr2Enabled reports whether profiling can be triggered via SIGUSR2.
func (c *Config) SigUsr2Enabled() bool { return c.enableSigUsr2 }

// Print writes a human-readable summary of the resolved configuration.
func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, "Sample period: %v\n", c.samplePeriod)
	fmt.Fprintf(w, "Multiplex period: %v\n", c.multiplexPeriod)
	fmt.Fprintf(w, "Report period: %v\n", c.reportPeriod)
	fmt.Fprintf(w, "Samples per report: %d\n", c.samplesPerReport)
	fmt.Fprintf(w, "Events: %v\n", c.EventNames())
	fmt.Fprintf(w, "Metrics: %v\n", c.MetricNames())
	fmt.Fprintf(w, "Percentiles: %v\n", c.eventReportPercentiles)
	fmt.Fprintf(w, "Event log file: %s\n", c.eventLogFile)
	fmt.Fprintf(w, "Device mask: %#x (%d devices)\n", c.deviceMask, c.deviceCount)
	fmt.Fprintf(w, "Max profilers per device: %d\n", c.maxProfilersPerDevice)
	c.printActivityProfilerConfig(w)
	for _, name := range c.FeatureNames() {
		fmt.Fprintf(w, "Feature config: %s\n", name)
	}
}

func (c *Config) printActivityProfilerConfig(w io.Writer) {
	fmt.Fprintf(w, "Activity profiler enabled: %t\n", c.activityProfilerEnabled)
	if !c.activityProfilerEnabled {
		return
	}
	fmt.Fprintf(w, "Activities log file: %s\n", c.activitiesLogFile)
	fmt.Fprintf(w, "Activities max buffer size: %d MB\n", c.activitiesMaxBufferSizeMB)
	fmt.Fprintf(w, "Activities warmup period: %v\n", c.activitiesWarmupDuration)
	if c.activitiesIterations > 0 {
		fmt.Fprintf(w, "Activities iterations: %d (target %q)\n",
			c.activitiesIterations, c.activitiesIterationsTarget)
	} else {
		fmt.Fprintf(w, "Activities duration: %v\n", c.activitiesOnDemandDuration)
	}
	if len(c.activitiesFilter) > 0 {
		fmt.Fprintf(w, "Activities filter: %v\n", c.activitiesFilter)
	}
}

func withinWindow(now, start time.Time, duration time.Duration) bool {
	if start.IsZero() || duration <= 0 {
		return false
	}
	elapsed := now.Sub(start)
	return elapsed >= 0 && elapsed < duration
}

func sortedKeys(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
