// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Wrapper interface {
	// WrapHandler wraps an http.Handler.
	WrapHandler(h http.Handler) http.Handler
}

type metricsWrapper struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsWrapper counts and times every request by response code and
// method.
func NewMetricsWrapper(r prometheus.Registerer) (Wrapper, error) {
	w := &metricsWrapper{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "http",
			Name:      "requests",
			Help:      "number of http requests",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "http",
			Name:      "request_duration_seconds",
			Help:      "duration of http requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
	}
	if err := r.Register(w.requests); err != nil {
		return nil, err
	}
	if err := r.Register(w.duration); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *metricsWrapper) WrapHandler(h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(
		w.requests,
		promhttp.InstrumentHandlerDuration(w.duration, h),
	)
}
