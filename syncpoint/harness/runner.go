// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package harness

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"go.syncpoint.io/syncpoint/core"
	"go.syncpoint.io/syncpoint/core/statejson"
	"go.syncpoint.io/syncpoint/telemetry"
)

const eventLogCapacity = 256

// WorkerFailure records a worker that saw a value the manager did not publish
// for its cycle.
type WorkerFailure struct {
	Worker   int   `json:"worker"`
	Cycle    int   `json:"cycle"`
	Observed int64 `json:"observed"`
	Expected int64 `json:"expected"`
}

// Result summarizes one run.
type Result struct {
	RunID           string          `json:"runId"`
	Name            string          `json:"name"`
	Cycles          uint64          `json:"cycles"`
	ObserverWakeups uint64          `json:"observerWakeups"`
	ExpectedValue   int64           `json:"expectedValue"`
	Failures        []WorkerFailure `json:"failures"`
	Duration        time.Duration   `json:"duration"`
}

// Passed reports whether every worker agreed with the manager on every cycle.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Runner drives one rendezvous point with cfg.Workers workers, one manager
// and cfg.Observers observers.
type Runner struct {
	cfg     Config
	runID   string
	point   *core.RendezvousPoint
	events  *telemetry.EventLog
	metrics *Metrics
	logger  *log.Entry

	// expected is written by the manager only while every worker is stopped
	// and read by workers only after they are released.
	expected int64

	wakeups  uint64
	mu       sync.Mutex
	failures []WorkerFailure
}

// NewRunner creates the rendezvous point for a run. metrics may be nil.
func NewRunner(cfg Config, metrics *Metrics) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger := log.WithFields(log.Fields{"runID": runID, "profile": cfg.Name})
	events := telemetry.NewEventLog(eventLogCapacity)

	eventsAPI := telemetry.Fanout{events}
	if metrics != nil {
		eventsAPI = append(eventsAPI, metrics)
	}

	point, err := core.NewRendezvousPoint(cfg.Workers,
		core.WithEventsAPI(eventsAPI),
		core.WithLogger(logger.WithField("workers", cfg.Workers)))
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:     cfg,
		runID:   runID,
		point:   point,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// RunID returns the identifier attached to every log line of the run.
func (r *Runner) RunID() string {
	return r.runID
}

// InternalState describes the rendezvous point driven by the run.
func (r *Runner) InternalState() *statejson.InternalStateDescription {
	return r.point.InternalState()
}

// Events returns the most recent cycle transitions.
func (r *Runner) Events() []telemetry.Event {
	return r.events.Events()
}

// Run blocks until the manager has driven every cycle and all workers have
// returned, or until ctx is done. Canceling ctx aborts the rendezvous point.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	r.logger.WithFields(log.Fields{
		"workers":       r.cfg.Workers,
		"cycles":        r.cfg.Cycles,
		"observers":     r.cfg.Observers,
		"managerDelay":  r.cfg.ManagerDelay,
		"workerDelay":   r.cfg.WorkerDelay,
		"observerDelay": r.cfg.ObserverDelay,
		"seed":          r.cfg.Seed,
	}).Info("Starting stress run")

	runDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			r.point.Abort(ctx.Err())
		case <-runDone:
		}
	}()

	var observers errgroup.Group
	for i := 0; i < r.cfg.Observers; i++ {
		rnd := r.rand(int64(r.cfg.Workers) + int64(i) + 1)
		observers.Go(func() error {
			r.observe(ctx, rnd)
			return nil
		})
	}

	var participants errgroup.Group
	for i := 0; i < int(r.cfg.Workers); i++ {
		worker, rnd := i, r.rand(int64(i))
		participants.Go(func() error {
			return r.abortOnError(r.work(ctx, worker, rnd))
		})
	}
	participants.Go(func() error {
		return r.abortOnError(r.manage(ctx, r.rand(-1)))
	})

	err := participants.Wait()
	close(runDone)

	// Observers only leave through an abort.
	r.point.Abort(nil)
	_ = observers.Wait()

	result := &Result{
		RunID:           r.runID,
		Name:            r.cfg.Name,
		Cycles:          r.point.Cycle(),
		ObserverWakeups: atomic.LoadUint64(&r.wakeups),
		ExpectedValue:   r.expected,
		Failures:        r.workerFailures(),
		Duration:        time.Since(start),
	}

	if err != nil {
		r.logger.WithError(err).Error("Stress run failed")
		return result, err
	}

	r.logger.WithFields(log.Fields{
		"cycles":          result.Cycles,
		"observerWakeups": result.ObserverWakeups,
		"failures":        len(result.Failures),
		"duration":        result.Duration,
	}).Info("Stress run done")
	return result, nil
}

func (r *Runner) work(ctx context.Context, worker int, rnd *rand.Rand) error {
	var observed int64
	for cycle := 0; cycle < r.cfg.Cycles; cycle++ {
		if observed != 0 && observed != r.expected {
			r.recordFailure(WorkerFailure{Worker: worker, Cycle: cycle, Observed: observed, Expected: r.expected})
		}

		sleepUpTo(ctx, rnd, r.cfg.WorkerDelay)

		if err := r.point.WorkerArrive(); err != nil {
			return fmt.Errorf("worker %d, cycle %d: %w", worker, cycle, err)
		}
		observed = r.expected
	}

	if observed != r.expected {
		r.recordFailure(WorkerFailure{Worker: worker, Cycle: r.cfg.Cycles, Observed: observed, Expected: r.expected})
	}
	return nil
}

func (r *Runner) manage(ctx context.Context, rnd *rand.Rand) error {
	if r.cfg.Cycles == 0 {
		return nil
	}

	if err := r.point.WaitUntilAllArrived(); err != nil {
		return fmt.Errorf("manager: %w", err)
	}
	r.logger.WithField("arrived", r.point.SnapshotArrivedCount()).Debug("All workers stopped")

	r.expected = initialExpectedValue

	for cycle := 0; cycle < r.cfg.Cycles; cycle++ {
		if cycle%2 == 0 {
			if err := r.point.WaitUntilAllArrived(); err != nil {
				return fmt.Errorf("manager, cycle %d: %w", cycle, err)
			}
			// Every worker is stopped: publish the next value.
			r.expected++
		}

		sleepUpTo(ctx, rnd, r.cfg.ManagerDelay)

		if err := r.point.ReleaseCycle(); err != nil {
			return fmt.Errorf("manager, cycle %d: %w", cycle, err)
		}
		r.logger.WithField("cycle", cycle).Info("Cycle released")
	}
	return nil
}

func (r *Runner) observe(ctx context.Context, rnd *rand.Rand) {
	for {
		if err := r.point.WaitUntilAllArrived(); err != nil {
			r.logger.WithError(err).Debug("Observer stopped")
			return
		}
		atomic.AddUint64(&r.wakeups, 1)
		r.metrics.onObserverWakeup()

		sleepUpTo(ctx, rnd, r.cfg.ObserverDelay)
	}
}

// abortOnError fails the whole run on the first participant error, so that
// no sibling stays blocked on a worker that is gone.
func (r *Runner) abortOnError(err error) error {
	if err != nil {
		r.point.Abort(err)
	}
	return err
}

func (r *Runner) recordFailure(f WorkerFailure) {
	r.logger.WithFields(log.Fields{
		"worker":   f.Worker,
		"cycle":    f.Cycle,
		"observed": f.Observed,
		"expected": f.Expected,
	}).Error("CORRUPTION: worker observed a stale value")
	r.metrics.onWorkerFailure()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

func (r *Runner) workerFailures() []WorkerFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	failures := make([]WorkerFailure, len(r.failures))
	copy(failures, r.failures)
	return failures
}

func (r *Runner) rand(offset int64) *rand.Rand {
	return rand.New(rand.NewSource(r.cfg.Seed + offset))
}

// sleepUpTo emulates workload. It returns early when ctx is done; the next
// call into the aborted rendezvous point then fails.
func sleepUpTo(ctx context.Context, rnd *rand.Rand, max time.Duration) {
	if max <= 0 {
		return
	}

	timer := time.NewTimer(time.Duration(rnd.Int63n(int64(max))))
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
