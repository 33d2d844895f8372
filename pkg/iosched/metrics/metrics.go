/*
Copyright 2025 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

const (
	// --- Subsystems ---
	SchedulerSubsystem = "sstf"

	// --- Label Keys ---
	DeviceLabel    = "device"
	DirectionLabel = "direction"
)

var (
	// --- Common Label Sets ---
	DeviceLabels          = []string{DeviceLabel}
	DeviceDirectionLabels = []string{DeviceLabel, DirectionLabel}

	// --- Common Buckets ---

	// SeekDistanceBuckets span single-track hops up to full-stroke seeks on large devices.
	SeekDistanceBuckets = prometheus.ExponentialBuckets(1, 8, 12)
)

var (
	dispatchedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: SchedulerSubsystem,
			Name:      "dispatched_total",
			Help:      "Counter of requests handed to the device driver, broken out by the queue they were taken from.",
		},
		DeviceDirectionLabels,
	)

	submittedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: SchedulerSubsystem,
			Name:      "submitted_total",
			Help:      "Counter of requests accepted by the scheduler, broken out by the queue they were routed to.",
		},
		DeviceDirectionLabels,
	)

	deferralCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: SchedulerSubsystem,
			Name:      "anticipation_deferrals_total",
			Help:      "Counter of dispatches deferred to wait for the previously active process.",
		},
		DeviceLabels,
	)

	cancellationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: SchedulerSubsystem,
			Name:      "anticipation_cancellations_total",
			Help:      "Counter of anticipation timers cancelled by a request arrival.",
		},
		DeviceLabels,
	)

	timeoutCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: SchedulerSubsystem,
			Name:      "anticipation_timeouts_total",
			Help:      "Counter of anticipation timers that expired before a request arrived.",
		},
		DeviceLabels,
	)

	queueDepthGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Subsystem: SchedulerSubsystem,
			Name:      "queue_depth",
			Help:      "Number of requests currently queued, broken out by direction.",
		},
		DeviceDirectionLabels,
	)

	seekDistance = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: SchedulerSubsystem,
			Name:      "seek_distance_sectors",
			Help:      "Distribution of the distance between consecutive dispatched sectors.",
			Buckets:   SeekDistanceBuckets,
		},
		DeviceLabels,
	)
)

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: SchedulerSubsystem,
		Name:      "build_info",
		Help:      "General information about the current build.",
	},
	[]string{"commit", "build_ref"},
)

var registerMetrics sync.Once

// Register registers the scheduler metrics with the controller-runtime metrics registry, plus any custom collectors.
func Register(customCollectors ...prometheus.Collector) {
	registerMetrics.Do(func() {
		metrics.Registry.MustRegister(dispatchedCounter)
		metrics.Registry.MustRegister(submittedCounter)
		metrics.Registry.MustRegister(deferralCounter)
		metrics.Registry.MustRegister(cancellationCounter)
		metrics.Registry.MustRegister(timeoutCounter)
		metrics.Registry.MustRegister(queueDepthGauge)
		metrics.Registry.MustRegister(seekDistance)
		metrics.Registry.MustRegister(buildInfo)
		for _, collector := range customCollectors {
			metrics.Registry.MustRegister(collector)
		}
	})
}

// Reset resets all metrics. Intended for tests.
func Reset() {
	dispatchedCounter.Reset()
	submittedCounter.Reset()
	deferralCounter.Reset()
	cancellationCounter.Reset()
	timeoutCounter.Reset()
	queueDepthGauge.Reset()
	seekDistance.Reset()
	buildInfo.Reset()
}

// RecordSubmitted records a request routed to the given direction.
func RecordSubmitted(device, direction string) {
	submittedCounter.WithLabelValues(device, direction).Inc()
}

// RecordDispatched records a request handed to the driver and the seek it caused.
func RecordDispatched(device, direction string, seek uint64) {
	dispatchedCounter.WithLabelValues(device, direction).Inc()
	seekDistance.WithLabelValues(device).Observe(float64(seek))
}

// RecordDeferral records an anticipatory deferral.
func RecordDeferral(device string) {
	deferralCounter.WithLabelValues(device).Inc()
}

// RecordCancellation records an anticipation timer cancelled by an arrival.
func RecordCancellation(device string) {
	cancellationCounter.WithLabelValues(device).Inc()
}

// RecordTimeout records an anticipation timer that expired.
func RecordTimeout(device string) {
	timeoutCounter.WithLabelValues(device).Inc()
}

// SetQueueDepth records the current depth of one direction queue.
func SetQueueDepth(device, direction string, depth int) {
	queueDepthGauge.WithLabelValues(device, direction).Set(float64(depth))
}

// RecordBuildInfo exposes the build's commit and ref.
func RecordBuildInfo(commitSha, buildRef string) {
	buildInfo.WithLabelValues(commitSha, buildRef).Set(1)
}
