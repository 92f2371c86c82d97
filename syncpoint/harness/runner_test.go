// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package harness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.syncpoint.io/syncpoint/fatalerror"
	"go.syncpoint.io/syncpoint/telemetry"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		valid bool
	}{
		{"defaults", Config{Workers: DefaultWorkers, Cycles: DefaultCycles, Observers: DefaultObservers}, true},
		{"no cycles", Config{Workers: 1}, true},
		{"no workers", Config{Cycles: 1}, false},
		{"negative cycles", Config{Workers: 1, Cycles: -1}, false},
		{"negative observers", Config{Workers: 1, Observers: -1}, false},
		{"negative delay", Config{Workers: 1, WorkerDelay: -time.Millisecond}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			}
		})
	}
}

func TestDefaultProfiles(t *testing.T) {
	profiles := DefaultProfiles(DefaultWorkers, DefaultCycles, DefaultObservers, 42)
	require.Len(t, profiles, 3)
	for _, p := range profiles {
		assert.NoError(t, p.Validate())
		assert.Equal(t, int64(42), p.Seed)
	}
	assert.Equal(t, 500*time.Millisecond, profiles[0].WorkerDelay)
	assert.Equal(t, 125*time.Millisecond, profiles[1].ObserverDelay)
	assert.Zero(t, profiles[2].ManagerDelay)
}

func TestRunPasses(t *testing.T) {
	tests := []Config{
		{Name: "single worker", Workers: 1, Cycles: 10, Observers: 1},
		{Name: "no observers", Workers: 4, Cycles: 10},
		{Name: "reference shape", Workers: DefaultWorkers, Cycles: DefaultCycles, Observers: 3},
		{
			Name: "short delays", Workers: 5, Cycles: 6, Observers: 2, Seed: 7,
			ManagerDelay: 2 * time.Millisecond, WorkerDelay: 5 * time.Millisecond, ObserverDelay: 3 * time.Millisecond,
		},
	}

	for _, cfg := range tests {
		t.Run(cfg.Name, func(t *testing.T) {
			runner, err := NewRunner(cfg, nil)
			require.NoError(t, err)

			result, err := runner.Run(context.Background())
			require.NoError(t, err)

			assert.True(t, result.Passed(), "failures: %v", result.Failures)
			assert.Equal(t, uint64(cfg.Cycles), result.Cycles)
			assert.Equal(t, runner.RunID(), result.RunID)
			// The manager publishes a new value on every even cycle.
			assert.Equal(t, int64(initialExpectedValue+(cfg.Cycles+1)/2), result.ExpectedValue)
			assert.Len(t, runner.Events(), 3*cfg.Cycles)
		})
	}
}

func TestRunWithoutCycles(t *testing.T) {
	runner, err := NewRunner(Config{Workers: 3, Observers: 2}, nil)
	require.NoError(t, err)

	result, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Passed())
	assert.Zero(t, result.Cycles)
	assert.Zero(t, result.ObserverWakeups)
}

func TestRunFeedsMetrics(t *testing.T) {
	metrics := NewMetrics("test")
	require.NoError(t, metrics.Register(prometheus.NewRegistry()))

	runner, err := NewRunner(Config{Workers: 3, Cycles: 4, Observers: 1}, metrics)
	require.NoError(t, err)
	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.CyclesReleased))
	assert.Equal(t, float64(result.ObserverWakeups), testutil.ToFloat64(metrics.ObserverWakeups))
	assert.Zero(t, testutil.ToFloat64(metrics.WorkerFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.ReleaseDuration))
}

func TestRunCanceled(t *testing.T) {
	// Workers sleep far longer than the context lives.
	cfg := Config{Workers: 2, Cycles: 1000, Observers: 1, WorkerDelay: time.Hour, Seed: 1}
	runner, err := NewRunner(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.Equal(t, fatalerror.SyncError, fatalerror.Of(err))
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}

func TestMonitor(t *testing.T) {
	m := &Monitor{}
	_, err := m.InternalState()
	assert.Equal(t, ErrNoActiveRun, err)
	_, err = m.Events()
	assert.Equal(t, ErrNoActiveRun, err)

	runner, err := NewRunner(Config{Workers: 1, Cycles: 2}, nil)
	require.NoError(t, err)
	m.Start(runner)

	result, err := runner.Run(context.Background())
	require.NoError(t, err)
	m.Finish(result)

	state, err := m.InternalState()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), state.State.Cycle)

	events, err := m.Events()
	require.NoError(t, err)
	require.Len(t, events, 6)
	assert.Equal(t, telemetry.AllArrivedType, events[0].Type)
	assert.Equal(t, telemetry.CycleDrainedType, events[5].Type)

	require.Len(t, m.Results(), 1)
	assert.Equal(t, result, m.Results()[0])
}
