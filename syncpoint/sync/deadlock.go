// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

//go:build deadlock
// +build deadlock

package sync

import (
	"sync"

	"github.com/sasha-s/go-deadlock"
)

type (
	// Cond implements a condition variable. Its Locker is a deadlock.Mutex
	// in this build.
	Cond = sync.Cond

	// Locker represents an object that can be locked and unlocked.
	Locker = sync.Locker

	// Mutex reports lock-order inversions and locks held for too long.
	Mutex = deadlock.Mutex

	// Once is an object that will perform exactly one action.
	Once = sync.Once

	// WaitGroup waits for a collection of goroutines to finish.
	WaitGroup = sync.WaitGroup
)

var (
	// NewCond returns a new Cond with Locker l.
	NewCond = sync.NewCond
)

// DeadlockDetection reports whether the lock-order checker is compiled in.
const DeadlockDetection = true
