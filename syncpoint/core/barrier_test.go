// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNewBarrierZeroParties(t *testing.T) {
	assert.Panics(t, func() { NewBarrier(0) })
}

func TestBarrierSingleParty(t *testing.T) {
	b := NewBarrier(1)
	for i := 0; i < 3; i++ {
		serial, err := b.Wait()
		require.NoError(t, err)
		assert.True(t, serial)
	}
}

func TestBarrierOneSerialPerGeneration(t *testing.T) {
	const parties = 8
	const generations = 50
	b := NewBarrier(parties)
	assert.Equal(t, uint32(parties), b.Parties())

	var serials int32
	var errg errgroup.Group
	for i := 0; i < parties; i++ {
		errg.Go(func() error {
			for g := 0; g < generations; g++ {
				serial, err := b.Wait()
				if err != nil {
					return err
				}
				if serial {
					atomic.AddInt32(&serials, 1)
				}
			}
			return nil
		})
	}

	require.NoError(t, errg.Wait())
	assert.Equal(t, int32(generations), atomic.LoadInt32(&serials))
}

func TestBarrierBlocksUntilAllArrive(t *testing.T) {
	b := NewBarrier(2)
	done := make(chan error, 1)

	go func() {
		_, err := b.Wait()
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("barrier tripped with a single party")
	case <-time.After(50 * time.Millisecond):
	}

	serial, err := b.Wait()
	require.NoError(t, err)
	assert.True(t, serial)
	assert.NoError(t, <-done)
}

func TestBarrierCancelWithError(t *testing.T) {
	b := NewBarrier(2)

	var errg errgroup.Group
	errg.Go(func() error {
		_, err := b.Wait()
		return err
	})

	err := errors.New("MyErr")
	b.CancelWithError(err)

	assert.Equal(t, err, errg.Wait())

	_, err = b.Wait()
	assert.Equal(t, errors.New("MyErr").Error(), err.Error())
}

func TestBarrierCancel(t *testing.T) {
	b := NewBarrier(3)
	b.CancelWithError(nil)
	_, err := b.Wait()
	assert.Equal(t, ErrBarrierBroken, err)
}
