// Package metrics holds Prometheus instruments that are used across the
// backend.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecordQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "record_queries_total",
			Help: "Cumulative number of statements executed by the data mapper.",
		})

	RecordQueryErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "record_query_errors_total",
			Help: "Cumulative number of data-mapper statement failures.",
		})

	LoginSuccessTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "login_success_total",
			Help: "Cumulative number of successful logins.",
		})

	LoginFailureTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "login_failure_total",
			Help: "Cumulative number of rejected login attempts.",
		})

	SessionsIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_issued_total",
			Help: "Cumulative number of session records created.",
		})
)

func init() {
	prometheus.MustRegister(
		RecordQueriesTotal,
		RecordQueryErrorsTotal,
		LoginSuccessTotal,
		LoginFailureTotal,
		SessionsIssuedTotal,
	)
}
