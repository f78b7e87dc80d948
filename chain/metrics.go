// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type chainMetrics struct {
	txsSubmitted prometheus.Counter
	txsRejected  prometheus.Counter
	unauthorized prometheus.Counter

	operations       *prometheus.CounterVec
	eventsEmitted    prometheus.Counter
	notifyFailures   prometheus.Counter
	executeDuration  metric.Averager
	replayProtection prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*chainMetrics, error) {
	executeDuration, err := metric.NewAverager(
		"chain_execute",
		"time spent executing an operation",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &chainMetrics{
		txsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_submitted",
			Help:      "number of transactions submitted",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_rejected",
			Help:      "number of transactions rejected before execution",
		}),
		unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "unauthorized",
			Help:      "number of operations rejected for an unauthorized origin",
		}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "operations",
			Help:      "number of operations executed by action and outcome",
		}, []string{"action", "outcome"}),
		eventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "events_emitted",
			Help:      "number of events emitted",
		}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "notify_failures",
			Help:      "number of events at least one subscription failed to accept",
		}),
		executeDuration: executeDuration,
		replayProtection: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chain",
			Name:      "replay_protection",
			Help:      "number of transaction ids tracked for replay protection",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsSubmitted),
		r.Register(m.txsRejected),
		r.Register(m.unauthorized),
		r.Register(m.operations),
		r.Register(m.eventsEmitted),
		r.Register(m.notifyFailures),
		r.Register(m.replayProtection),
	)
	return m, errs.Err
}
