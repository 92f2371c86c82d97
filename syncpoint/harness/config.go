// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package harness

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultWorkers   = 15
	DefaultCycles    = 15
	DefaultObservers = 1

	// initialExpectedValue is published by the manager before the first release.
	initialExpectedValue = 10
)

var ErrInvalidConfig = errors.New("InvalidConfig")

// Config describes one stress run. Delays are upper bounds: every participant
// sleeps a random duration in [0, delay) per iteration, zero disables it.
type Config struct {
	Name          string
	Workers       uint32
	Cycles        int
	Observers     int
	ManagerDelay  time.Duration
	WorkerDelay   time.Duration
	ObserverDelay time.Duration
	Seed          int64
}

// Validate rejects configurations that cannot complete.
func (c Config) Validate() error {
	if c.Workers == 0 {
		return fmt.Errorf("%w: workers must be > 0", ErrInvalidConfig)
	}
	if c.Cycles < 0 {
		return fmt.Errorf("%w: cycles must be >= 0", ErrInvalidConfig)
	}
	if c.Observers < 0 {
		return fmt.Errorf("%w: observers must be >= 0", ErrInvalidConfig)
	}
	if c.ManagerDelay < 0 || c.WorkerDelay < 0 || c.ObserverDelay < 0 {
		return fmt.Errorf("%w: delays must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// DefaultProfiles returns the three delay profiles of the reference stress
// test: slow workers, faster workers, and no delays at all.
func DefaultProfiles(workers uint32, cycles int, observers int, seed int64) []Config {
	base := Config{Workers: workers, Cycles: cycles, Observers: observers, Seed: seed}

	slow := base
	slow.Name = "slow"
	slow.ManagerDelay = 50 * time.Millisecond
	slow.WorkerDelay = 500 * time.Millisecond
	slow.ObserverDelay = 250 * time.Millisecond

	medium := base
	medium.Name = "medium"
	medium.ManagerDelay = 50 * time.Millisecond
	medium.WorkerDelay = 250 * time.Millisecond
	medium.ObserverDelay = 125 * time.Millisecond

	fast := base
	fast.Name = "nodelay"

	return []Config{slow, medium, fast}
}
