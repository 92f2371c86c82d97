// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"go.syncpoint.io/syncpoint/sync"
)

// Barrier is a cyclic barrier for a fixed number of parties. Each call to Wait
// blocks until all parties of the current generation have called it, then the
// barrier rearms itself.
type Barrier struct {
	cond       *sync.Cond
	parties    uint32
	waiting    uint32
	generation uint64
	broken     bool
	err        error
}

// NewBarrier returns a barrier for parties callers. parties must be positive.
func NewBarrier(parties uint32) *Barrier {
	if parties == 0 {
		panic("barrier parties must be > 0")
	}
	return &Barrier{
		parties: parties,
		cond:    sync.NewCond(&sync.Mutex{}),
	}
}

// Wait blocks until all parties have arrived. Exactly one caller per
// generation, the last to arrive, gets serial == true.
func (b *Barrier) Wait() (serial bool, err error) {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()

	if b.broken {
		return false, b.brokenErr()
	}

	generation := b.generation
	b.waiting++

	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		b.cond.Broadcast()
		return true, nil
	}

	for generation == b.generation && !b.broken {
		b.cond.Wait()
	}

	// The generation tripped before the barrier broke.
	if generation != b.generation {
		return false, nil
	}

	return false, b.brokenErr()
}

// CancelWithError breaks the barrier: blocked and future Wait calls fail.
func (b *Barrier) CancelWithError(err error) {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()
	b.broken = true
	b.err = err
	b.cond.Broadcast()
}

// Parties returns the number of callers needed to trip the barrier.
func (b *Barrier) Parties() uint32 {
	return b.parties
}

func (b *Barrier) brokenErr() error {
	if b.err != nil {
		return b.err
	}
	return ErrBarrierBroken
}
