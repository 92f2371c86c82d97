// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package standalone

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.syncpoint.io/syncpoint/core/statejson"
	"go.syncpoint.io/syncpoint/harness"
	"go.syncpoint.io/syncpoint/telemetry"
)

// StateSource exposes the stress run being driven.
type StateSource interface {
	InternalState() (*statejson.InternalStateDescription, error)
	Events() ([]telemetry.Event, error)
	Results() []*harness.Result
}

// NewHTTPRouter returns the debug API of a stress run. gatherer may be nil,
// in which case /metrics is not served.
func NewHTTPRouter(src StateSource, gatherer prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()
	r.Use(standaloneAccessLogDecorator)

	r.Get("/test/ping", func(w http.ResponseWriter, r *http.Request) { PingHandler(w, r) })
	r.Get("/test/internalState", func(w http.ResponseWriter, r *http.Request) { InternalStateHandler(w, r, src) })
	r.Get("/test/eventLog", func(w http.ResponseWriter, r *http.Request) { EventLogHandler(w, r, src) })
	r.Get("/test/results", func(w http.ResponseWriter, r *http.Request) { ResultsHandler(w, r, src) })
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}
