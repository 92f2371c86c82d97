// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

// String values of possible cycle states
const (
	WaitingForWorkersStateName = "WaitingForWorkers"
	// WaitingForWorkers -> AllArrived
	AllArrivedStateName = "AllArrived"
	// AllArrived -> Releasing
	ReleasingStateName = "Releasing"
	// Releasing -> Draining -> WaitingForWorkers
	DrainingStateName = "Draining"
)

// CycleState is the phase of the current rendezvous cycle.
type CycleState int

const (
	WaitingForWorkers CycleState = iota
	AllArrived
	Releasing
	Draining
)

func (s CycleState) String() string {
	switch s {
	case WaitingForWorkers:
		return WaitingForWorkersStateName
	case AllArrived:
		return AllArrivedStateName
	case Releasing:
		return ReleasingStateName
	case Draining:
		return DrainingStateName
	}
	return "Unknown"
}
