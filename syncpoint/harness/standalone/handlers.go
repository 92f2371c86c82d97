// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"go.syncpoint.io/syncpoint/harness"
)

const (
	noActiveRunErrorType = "Run.NotStarted"
	internalErrorType    = "Internal.Error"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

func InternalStateHandler(w http.ResponseWriter, r *http.Request, src StateSource) {
	state, err := src.InternalState()
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, state)
}

func EventLogHandler(w http.ResponseWriter, r *http.Request, src StateSource) {
	events, err := src.Events()
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, events)
}

func ResultsHandler(w http.ResponseWriter, r *http.Request, src StateSource) {
	render.JSON(w, r, src.Results())
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, harness.ErrNoActiveRun) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, &ErrorResponse{
			ErrorType:    noActiveRunErrorType,
			ErrorMessage: "no stress run has started yet",
		})
		return
	}

	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, &ErrorResponse{
		ErrorType:    internalErrorType,
		ErrorMessage: err.Error(),
	})
}
