// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestWalkThrough(t *testing.T) {
	g := NewGate(1)
	assert.NoError(t, g.WalkThrough())
}

func TestWalkThroughTwice(t *testing.T) {
	g := NewGate(1)
	assert.NoError(t, g.WalkThrough())
	assert.Equal(t, ErrGateIntegrity, g.WalkThrough())
}

func TestReset(t *testing.T) {
	g := NewGate(1)
	assert.NoError(t, g.WalkThrough())
	assert.NoError(t, g.AwaitGateCondition())
	g.Reset()
	assert.NoError(t, g.WalkThrough())
}

func TestAwaitGateConditionMultipleWalkers(t *testing.T) {
	g := NewGate(3)

	var errg errgroup.Group
	errg.Go(g.AwaitGateCondition)
	for i := 0; i < 3; i++ {
		errg.Go(g.WalkThrough)
	}

	assert.NoError(t, errg.Wait())
}

func TestCancel(t *testing.T) {
	g := NewGate(1)

	var errg errgroup.Group
	errg.Go(g.AwaitGateCondition)
	g.CancelWithError(nil)

	assert.Equal(t, ErrGateCanceled, errg.Wait())
}

func TestCancelWithError(t *testing.T) {
	g := NewGate(1)

	var errg errgroup.Group
	errg.Go(g.AwaitGateCondition)

	err := errors.New("MyErr")
	g.CancelWithError(err)

	assert.Equal(t, err, errg.Wait())
}

func TestUseAfterCancel(t *testing.T) {
	g := NewGate(1)
	err := errors.New("MyErr")
	g.CancelWithError(err)
	assert.Equal(t, err, g.AwaitGateCondition())
	assert.Equal(t, err, g.WalkThrough())
	g.Reset()
	assert.Equal(t, err, g.AwaitGateCondition())
}

func BenchmarkAwaitGateCondition(b *testing.B) {
	g := NewGate(1)

	for n := 0; n < b.N; n++ {
		go func() { g.WalkThrough() }()
		if err := g.AwaitGateCondition(); err != nil {
			panic(err)
		}
		g.Reset()
	}
}
