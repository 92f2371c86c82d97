// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"time"
)

// CycleData describes one transition of a rendezvous cycle.
type CycleData struct {
	Cycle     uint64    `json:"cycle"`
	Workers   uint32    `json:"workers"`
	Timestamp time.Time `json:"timestamp"`
}

// EventsAPI receives cycle transitions from the manager side of a rendezvous
// point. Calls are made outside of any lock, in cycle order.
type EventsAPI interface {
	SendAllArrived(CycleData)
	SendCycleReleased(CycleData)
	SendCycleDrained(CycleData)
}

// NoOpEventsAPI drops every event.
type NoOpEventsAPI struct{}

func (s *NoOpEventsAPI) SendAllArrived(CycleData)    {}
func (s *NoOpEventsAPI) SendCycleReleased(CycleData) {}
func (s *NoOpEventsAPI) SendCycleDrained(CycleData)  {}
