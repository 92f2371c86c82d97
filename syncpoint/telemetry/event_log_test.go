// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEventLogRecordsInOrder(t *testing.T) {
	l := NewEventLog(0)
	data := CycleData{Cycle: 1, Workers: 3, Timestamp: time.Unix(0, 0)}

	l.SendAllArrived(data)
	l.SendCycleReleased(data)
	l.SendCycleDrained(data)

	events := l.Events()
	require.Len(t, events, 3)
	assert.Equal(t, AllArrivedType, events[0].Type)
	assert.Equal(t, CycleReleasedType, events[1].Type)
	assert.Equal(t, CycleDrainedType, events[2].Type)
}

func TestEventLogCapacity(t *testing.T) {
	l := NewEventLog(2)
	for i := uint64(0); i < 5; i++ {
		l.SendCycleDrained(CycleData{Cycle: i})
	}

	events := l.Events()
	require.Len(t, events, 2)
	assert.Equal(t, uint64(3), events[0].Data.Cycle)
	assert.Equal(t, uint64(4), events[1].Data.Cycle)
}

func TestEventLogAsJSON(t *testing.T) {
	l := NewEventLog(0)
	l.SendAllArrived(CycleData{Cycle: 7, Workers: 2})

	var events []Event
	require.NoError(t, json.Unmarshal(l.AsJSON(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, uint64(7), events[0].Data.Cycle)
	assert.Equal(t, uint32(2), events[0].Data.Workers)
}

func TestFanout(t *testing.T) {
	data := CycleData{Cycle: 2, Workers: 1}
	m := NewMockEventsAPI(t)
	m.On("SendAllArrived", data).Once()
	m.On("SendCycleReleased", data).Once()
	m.On("SendCycleDrained", mock.AnythingOfType("telemetry.CycleData")).Once()

	l := NewEventLog(0)
	f := Fanout{&NoOpEventsAPI{}, m, l}
	f.SendAllArrived(data)
	f.SendCycleReleased(data)
	f.SendCycleDrained(data)

	assert.Len(t, l.Events(), 3)
}
