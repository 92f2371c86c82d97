// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"fmt"

	"go.syncpoint.io/syncpoint/fatalerror"
)

var ErrInvalidWorkerCount = errors.New("ErrInvalidWorkerCount")

var ErrGateIntegrity = errors.New("ErrGateIntegrity")

var ErrGateCanceled = errors.New("ErrGateCanceled")

var ErrBarrierBroken = errors.New("ErrBarrierBroken")

var ErrAborted = errors.New("ErrAborted")

// Error is returned by every failing RendezvousPoint operation.
type Error struct {
	Type fatalerror.ErrorType
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Type, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorType implements fatalerror.Typed.
func (e *Error) ErrorType() fatalerror.ErrorType {
	return e.Type
}

func allocationError(op string, err error) error {
	return &Error{Type: fatalerror.AllocationError, Op: op, Err: err}
}

func syncError(op string, err error) error {
	return &Error{Type: fatalerror.SyncError, Op: op, Err: err}
}
