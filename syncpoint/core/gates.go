// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"go.syncpoint.io/syncpoint/sync"
)

// Gate lets one party await a fixed number of WalkThrough calls made by
// others. WalkThrough never blocks.
type Gate interface {
	WalkThrough() error
	AwaitGateCondition() error
	Reset()
	CancelWithError(error)
}

type gateImpl struct {
	gateCondition *sync.Cond
	count         uint32
	arrived       uint32
	canceled      bool
	err           error
}

// Reset rearms the gate for another round. A canceled gate stays canceled.
func (g *gateImpl) Reset() {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	if !g.canceled {
		g.arrived = 0
	}
}

func (g *gateImpl) WalkThrough() error {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	if g.canceled {
		return g.cancelErr()
	}

	if g.arrived == g.count {
		return ErrGateIntegrity
	}

	g.arrived++

	if g.arrived == g.count {
		g.gateCondition.Broadcast()
	}

	return nil
}

func (g *gateImpl) AwaitGateCondition() error {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	for g.arrived != g.count && !g.canceled {
		g.gateCondition.Wait()
	}

	if g.canceled {
		return g.cancelErr()
	}

	return nil
}

func (g *gateImpl) CancelWithError(err error) {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	g.canceled = true
	g.err = err
	g.gateCondition.Broadcast()
}

func (g *gateImpl) cancelErr() error {
	if g.err != nil {
		return g.err
	}
	return ErrGateCanceled
}

func NewGate(count uint32) Gate {
	return &gateImpl{
		count:         count,
		gateCondition: sync.NewCond(&sync.Mutex{}),
	}
}
