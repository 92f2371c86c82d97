// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package harness

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go.syncpoint.io/syncpoint/telemetry"
)

// Metrics provide rendezvous level metrics for stress runs. A nil *Metrics
// records nothing.
type Metrics struct {
	CyclesReleased  prometheus.Counter
	ObserverWakeups prometheus.Counter
	WorkerFailures  prometheus.Counter
	ReleaseDuration prometheus.Histogram

	mu         sync.Mutex
	releasedAt time.Time
}

// NewMetrics creates a new metrics instance.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CyclesReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rendezvous",
			Name:      "cycles_released_total",
			Help:      "Cycles driven to completion by the manager.",
		}),
		ObserverWakeups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rendezvous",
			Name:      "observer_wakeups_total",
			Help:      "Successful returns from wait_until_all_arrived in observer goroutines.",
		}),
		WorkerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rendezvous",
			Name:      "worker_failures_total",
			Help:      "Workers that observed a value other than the one published by the manager.",
		}),
		ReleaseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rendezvous",
			Name:      "drain_duration_seconds",
			Help:      "Time from releasing the workers to the last worker leaving the cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}

// Collectors returns all prometheus metrics as collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{
		m.CyclesReleased,
		m.ObserverWakeups,
		m.WorkerFailures,
		m.ReleaseDuration,
	}
}

// Register registers every collector with r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) onObserverWakeup() {
	if m == nil {
		return
	}
	m.ObserverWakeups.Inc()
}

func (m *Metrics) onWorkerFailure() {
	if m == nil {
		return
	}
	m.WorkerFailures.Inc()
}

// Metrics is a telemetry.EventsAPI so a rendezvous point can feed it directly.
var _ telemetry.EventsAPI = (*Metrics)(nil)

func (m *Metrics) SendAllArrived(telemetry.CycleData) {}

func (m *Metrics) SendCycleReleased(data telemetry.CycleData) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releasedAt = data.Timestamp
}

func (m *Metrics) SendCycleDrained(data telemetry.CycleData) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CyclesReleased.Inc()
	if !m.releasedAt.IsZero() {
		m.ReleaseDuration.Observe(data.Timestamp.Sub(m.releasedAt).Seconds())
		m.releasedAt = time.Time{}
	}
}
