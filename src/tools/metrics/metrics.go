// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

// Package metrics exposes the Prometheus collectors of the board
// resolution engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "board"

// Registry is the Prometheus registry holding all board collectors
var Registry = prometheus.NewRegistry()

var (
	// Transitions counts lifecycle operations by operation and outcome
	// ("ok" or the exception type).
	Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Resolution lifecycle operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	// FormulaFallbacks counts custom quorum formulas that fell back to
	// half plus one.
	FormulaFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quorum_formula_fallbacks_total",
		Help:      "Custom quorum formulas that fell back to half plus one.",
	}, []string{"meeting_type"})

	// SideEffectFailures counts audit notes and approval tasks that could
	// not be written after a transition committed.
	SideEffectFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "side_effect_failures_total",
		Help:      "Audit notes and approval tasks that failed after commit.",
	}, []string{"kind"})

	// TransactionRetries counts transactions retried after a
	// serialization failure.
	TransactionRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transaction_retries_total",
		Help:      "Transactions retried after a serialization failure.",
	})

	// Requests counts board API requests by method, route and status
	Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Board API requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// OverdueApprovals counts approval tasks flagged as overdue
	OverdueApprovals = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "overdue_approvals_total",
		Help:      "Approval tasks flagged as overdue by the reminder job.",
	})
)

// Handler returns the HTTP handler serving the board metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func init() {
	Registry.MustRegister(
		Transitions,
		FormulaFallbacks,
		SideEffectFailures,
		TransactionRetries,
		OverdueApprovals,
		Requests,
		collectors.NewGoCollector(),
	)
}
