// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fatalerror

import "errors"

// This package defines the error types a rendezvous point reports to its caller.
// Separate package for namespacing

// ErrorType classifies a failure returned by a syncpoint operation
type ErrorType string

const (
	AllocationError ErrorType = "Syncpoint.AllocationError" // backing resources for a new point could not be set up
	SyncError       ErrorType = "Syncpoint.SyncError"       // a lock, condition, gate or barrier failed; fatal to the point
	Unknown         ErrorType = "Unknown"
)

// Typed is implemented by errors that carry an ErrorType.
type Typed interface {
	error
	ErrorType() ErrorType
}

// Of returns the ErrorType of the first Typed error in err's chain.
func Of(err error) ErrorType {
	var typed Typed
	if errors.As(err, &typed) {
		return typed.ErrorType()
	}
	return Unknown
}

// Is reports whether err carries the given ErrorType.
func Is(err error, t ErrorType) bool {
	return err != nil && Of(err) == t
}
