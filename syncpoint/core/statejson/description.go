// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// StateDescription ...
type StateDescription struct {
	Name  string `json:"name"`
	Cycle uint64 `json:"cycle"`
}

// InternalStateDescription describes the internal state of a rendezvous point for debugging purposes
type InternalStateDescription struct {
	State        StateDescription `json:"state"`
	Workers      uint32           `json:"workers"`
	Arrived      uint32           `json:"arrived"`
	Departed     uint32           `json:"departed"`
	Stopped      bool             `json:"stopped"`
	FirstFailure string           `json:"firstFailure,omitempty"`
}

func (s *InternalStateDescription) AsJSON() []byte {
	bytes, err := json.Marshal(s)
	if err != nil {
		log.Panicf("Failed to marshall internal states: %s", err)
	}
	return bytes
}
