// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"go.syncpoint.io/syncpoint/core/statejson"
	"go.syncpoint.io/syncpoint/logging"
	"go.syncpoint.io/syncpoint/sync"
	"go.syncpoint.io/syncpoint/telemetry"
)

const (
	opCreate              = "create"
	opWorkerArrive        = "worker_arrive"
	opWaitUntilAllArrived = "wait_until_all_arrived"
	opReleaseCycle        = "release_cycle"
)

// RendezvousPoint synchronizes a fixed set of workers with one manager, once
// per cycle. Workers block in WorkerArrive until the manager calls
// ReleaseCycle; observers block in WaitUntilAllArrived until every worker of
// the current cycle has arrived.
//
// Lock order is workerCond.L, then observerCond.L. No lock is held while
// waiting on the drain gate or the exit barrier.
type RendezvousPoint struct {
	workerCount uint32

	// Guarded by workerCond.L. ingress is also read atomically by
	// SnapshotArrivedCount, so every write is an atomic store.
	workerCond *sync.Cond
	ingress    uint32
	egress     uint32
	releasing  bool
	cycle      uint64
	abortErr   error

	// Guarded by observerCond.L. stopped is only written while holding both
	// locks.
	observerCond   *sync.Cond
	stopped        bool
	stopGeneration uint64
	observerErr    error

	// Signalled by the last worker out of the exit barrier, awaited by the
	// manager.
	drained Gate
	exit    *Barrier

	eventsAPI telemetry.EventsAPI
	logger    *log.Entry
}

// Option configures a RendezvousPoint.
type Option func(*RendezvousPoint)

// WithEventsAPI sets the receiver of cycle transitions.
func WithEventsAPI(eventsAPI telemetry.EventsAPI) Option {
	return func(p *RendezvousPoint) {
		if eventsAPI != nil {
			p.eventsAPI = eventsAPI
		}
	}
}

// WithLogger sets the entry internal logs are written to.
func WithLogger(logger *log.Entry) Option {
	return func(p *RendezvousPoint) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewRendezvousPoint returns a point for workerCount workers, with all
// counters at zero.
func NewRendezvousPoint(workerCount uint32, opts ...Option) (*RendezvousPoint, error) {
	if workerCount == 0 {
		return nil, allocationError(opCreate, ErrInvalidWorkerCount)
	}

	p := &RendezvousPoint{
		workerCount:  workerCount,
		workerCond:   sync.NewCond(&sync.Mutex{}),
		observerCond: sync.NewCond(&sync.Mutex{}),
		drained:      NewGate(1),
		exit:         NewBarrier(workerCount),
		eventsAPI:    &telemetry.NoOpEventsAPI{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.WithField("workers", workerCount)
	}

	p.logger.Debug("rendezvous point created")
	return p, nil
}

// WorkerCount returns the number of workers per cycle.
func (p *RendezvousPoint) WorkerCount() uint32 {
	return p.workerCount
}

// WorkerArrive is called once per cycle by each worker. It blocks until the
// manager releases the cycle and every worker has left it.
func (p *RendezvousPoint) WorkerArrive() error {
	p.workerCond.L.Lock()

	if p.abortErr != nil {
		p.workerCond.L.Unlock()
		return syncError(opWorkerArrive, p.abortErr)
	}

	arrived := p.ingress
	if arrived == p.workerCount {
		p.workerCond.L.Unlock()
		p.logger.WithField("arrived", arrived).Error("worker arrived at a full rendezvous point")
		return syncError(opWorkerArrive, ErrGateIntegrity)
	}

	arrived++
	atomic.StoreUint32(&p.ingress, arrived)
	if arrived == p.workerCount {
		p.setStopped(true)
	}
	p.logger.WithField("arrived", arrived).Debug("worker blocked")

	for p.ingress != 0 && p.abortErr == nil {
		p.workerCond.Wait()
	}

	if p.abortErr != nil {
		err := p.abortErr
		p.workerCond.L.Unlock()
		return syncError(opWorkerArrive, err)
	}

	p.egress++
	if p.egress == p.workerCount {
		p.logger.Debug("last worker unblocked")
	}
	p.workerCond.L.Unlock()

	serial, err := p.exit.Wait()
	if err != nil {
		return syncError(opWorkerArrive, err)
	}

	// Every worker is past the exit barrier: the cycle is drained.
	if serial {
		if err := p.drained.WalkThrough(); err != nil {
			return syncError(opWorkerArrive, err)
		}
	}

	return nil
}

// WaitUntilAllArrived blocks until every worker of the current cycle has
// arrived. Any number of observers may call it concurrently and repeatedly.
// A nil return is a momentary snapshot: the manager may release the cycle
// right after.
func (p *RendezvousPoint) WaitUntilAllArrived() error {
	p.observerCond.L.Lock()
	defer p.observerCond.L.Unlock()

	generation := p.stopGeneration
	for !p.stopped && p.stopGeneration == generation && p.observerErr == nil {
		p.observerCond.Wait()
	}

	if p.observerErr != nil {
		return syncError(opWaitUntilAllArrived, p.observerErr)
	}

	return nil
}

// ReleaseCycle is called by the manager only. It waits for all workers to
// arrive, releases them together, and returns once every worker has left the
// cycle.
func (p *RendezvousPoint) ReleaseCycle() error {
	if err := p.WaitUntilAllArrived(); err != nil {
		return err
	}
	start := time.Now()

	p.workerCond.L.Lock()
	if p.abortErr != nil {
		err := p.abortErr
		p.workerCond.L.Unlock()
		return syncError(opReleaseCycle, err)
	}
	cycle := p.cycle
	atomic.StoreUint32(&p.ingress, 0)
	p.setStopped(false)
	p.releasing = true
	p.workerCond.Broadcast()
	p.workerCond.L.Unlock()

	p.logger.WithField("cycle", cycle).Debug("workers released, waiting for last worker to complete cycle")
	p.eventsAPI.SendAllArrived(p.cycleData(cycle))
	p.eventsAPI.SendCycleReleased(p.cycleData(cycle))

	if err := p.drained.AwaitGateCondition(); err != nil {
		return syncError(opReleaseCycle, err)
	}
	p.drained.Reset()

	p.workerCond.L.Lock()
	p.egress = 0
	p.releasing = false
	p.cycle++
	p.workerCond.L.Unlock()

	p.logger.WithFields(log.Fields{"cycle": cycle, "durationMs": logging.Since(start)}).Debug("cycle drained")
	p.eventsAPI.SendCycleDrained(p.cycleData(cycle))

	return nil
}

// SnapshotArrivedCount returns the number of workers arrived in the current
// cycle without taking any lock. The value may be stale as soon as it is
// returned.
func (p *RendezvousPoint) SnapshotArrivedCount() uint32 {
	return atomic.LoadUint32(&p.ingress)
}

// Cycle returns the number of fully drained cycles.
func (p *RendezvousPoint) Cycle() uint64 {
	p.workerCond.L.Lock()
	defer p.workerCond.L.Unlock()
	return p.cycle
}

// State returns the phase of the current cycle.
func (p *RendezvousPoint) State() CycleState {
	p.workerCond.L.Lock()
	defer p.workerCond.L.Unlock()
	return p.stateLocked()
}

// InternalState returns a consistent snapshot of the point.
func (p *RendezvousPoint) InternalState() *statejson.InternalStateDescription {
	p.workerCond.L.Lock()
	defer p.workerCond.L.Unlock()
	p.observerCond.L.Lock()
	defer p.observerCond.L.Unlock()

	desc := &statejson.InternalStateDescription{
		State: statejson.StateDescription{
			Name:  p.stateLocked().String(),
			Cycle: p.cycle,
		},
		Workers:  p.workerCount,
		Arrived:  p.ingress,
		Departed: p.egress,
		Stopped:  p.stopped,
	}
	if p.abortErr != nil {
		desc.FirstFailure = p.abortErr.Error()
	}
	return desc
}

// Abort makes every blocked and future call fail with a SyncError wrapping
// err, or ErrAborted when err is nil. The point cannot be used afterwards.
// Only the first abort error is kept.
func (p *RendezvousPoint) Abort(err error) {
	if err == nil {
		err = ErrAborted
	}

	p.workerCond.L.Lock()
	if p.abortErr != nil {
		p.workerCond.L.Unlock()
		return
	}
	p.abortErr = err
	p.workerCond.Broadcast()

	p.observerCond.L.Lock()
	p.observerErr = err
	p.observerCond.Broadcast()
	p.observerCond.L.Unlock()
	p.workerCond.L.Unlock()

	p.drained.CancelWithError(err)
	p.exit.CancelWithError(err)

	if errors.Is(err, ErrAborted) {
		p.logger.Debug("rendezvous point aborted")
	} else {
		p.logger.WithError(err).Warn("rendezvous point aborted")
	}
}

// setStopped must be called with workerCond.L held.
func (p *RendezvousPoint) setStopped(stopped bool) {
	p.observerCond.L.Lock()
	defer p.observerCond.L.Unlock()

	p.stopped = stopped
	if stopped {
		p.stopGeneration++
		p.observerCond.Broadcast()
	}
}

// stateLocked must be called with workerCond.L held.
func (p *RendezvousPoint) stateLocked() CycleState {
	switch {
	case p.releasing && p.egress == p.workerCount:
		return Draining
	case p.releasing:
		return Releasing
	case p.ingress == p.workerCount:
		return AllArrived
	}
	return WaitingForWorkers
}

func (p *RendezvousPoint) cycleData(cycle uint64) telemetry.CycleData {
	return telemetry.CycleData{
		Cycle:     cycle,
		Workers:   p.workerCount,
		Timestamp: time.Now(),
	}
}
