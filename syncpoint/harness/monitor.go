// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package harness

import (
	"errors"
	"sync"

	"go.syncpoint.io/syncpoint/core/statejson"
	"go.syncpoint.io/syncpoint/telemetry"
)

var ErrNoActiveRun = errors.New("NoActiveRun")

// Monitor tracks the run in progress and the results of finished runs, for
// the debug endpoints.
type Monitor struct {
	mu      sync.Mutex
	active  *Runner
	results []*Result
}

// Start makes r the active run.
func (m *Monitor) Start(r *Runner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = r
}

// Finish records the result of the active run. The runner stays available
// for inspection until the next Start.
func (m *Monitor) Finish(result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if result != nil {
		m.results = append(m.results, result)
	}
}

// InternalState describes the rendezvous point of the latest run.
func (m *Monitor) InternalState() (*statejson.InternalStateDescription, error) {
	m.mu.Lock()
	r := m.active
	m.mu.Unlock()

	if r == nil {
		return nil, ErrNoActiveRun
	}
	return r.InternalState(), nil
}

// Events returns the cycle transitions of the latest run.
func (m *Monitor) Events() ([]telemetry.Event, error) {
	m.mu.Lock()
	r := m.active
	m.mu.Unlock()

	if r == nil {
		return nil, ErrNoActiveRun
	}
	return r.Events(), nil
}

// Results returns the results of finished runs, oldest first.
func (m *Monitor) Results() []*Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := make([]*Result, len(m.results))
	copy(results, m.results)
	return results
}
