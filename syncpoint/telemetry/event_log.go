// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Event types recorded by EventLog
const (
	AllArrivedType    = "allArrived"
	CycleReleasedType = "cycleReleased"
	CycleDrainedType  = "cycleDrained"
)

// Event is one entry of an EventLog.
type Event struct {
	Type string    `json:"type"`
	Data CycleData `json:"data"`
}

// EventLog is an EventsAPI that keeps the most recent events in memory.
type EventLog struct {
	mu       sync.Mutex
	capacity int
	events   []Event
}

// NewEventLog returns an EventLog holding at most capacity events; older
// events are discarded first. capacity <= 0 keeps everything.
func NewEventLog(capacity int) *EventLog {
	return &EventLog{capacity: capacity}
}

func (l *EventLog) SendAllArrived(data CycleData) {
	l.append(Event{Type: AllArrivedType, Data: data})
}

func (l *EventLog) SendCycleReleased(data CycleData) {
	l.append(Event{Type: CycleReleasedType, Data: data})
}

func (l *EventLog) SendCycleDrained(data CycleData) {
	l.append(Event{Type: CycleDrainedType, Data: data})
}

func (l *EventLog) append(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	if l.capacity > 0 && len(l.events) > l.capacity {
		l.events = l.events[len(l.events)-l.capacity:]
	}
}

// Events returns a copy of the recorded events, oldest first.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := make([]Event, len(l.events))
	copy(events, l.events)
	return events
}

func (l *EventLog) AsJSON() []byte {
	bytes, err := json.Marshal(l.Events())
	if err != nil {
		log.Panicf("Failed to marshall event log: %s", err)
	}
	return bytes
}

// Fanout sends every event to each of its EventsAPI in order.
type Fanout []EventsAPI

func (f Fanout) SendAllArrived(data CycleData) {
	for _, api := range f {
		api.SendAllArrived(data)
	}
}

func (f Fanout) SendCycleReleased(data CycleData) {
	for _, api := range f {
		api.SendCycleReleased(data)
	}
}

func (f Fanout) SendCycleDrained(data CycleData) {
	for _, api := range f {
		api.SendCycleDrained(data)
	}
}
