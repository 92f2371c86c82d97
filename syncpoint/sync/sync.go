// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

//go:build !deadlock
// +build !deadlock

// Package sync selects the lock implementation used by the syncpoint
// primitives. Build with -tags deadlock to swap in go-deadlock mutexes, which
// detect lock-order inversions between the primary and observer locks.
package sync

import "sync"

type (
	// Cond implements a condition variable.
	Cond = sync.Cond

	// Locker represents an object that can be locked and unlocked.
	Locker = sync.Locker

	// Mutex is a mutual exclusion lock.
	Mutex = sync.Mutex

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
const DeadlockDetection = false
