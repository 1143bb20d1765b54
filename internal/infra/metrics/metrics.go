// Package metrics holds the domain counters shared by the worker, the
// integrations and the HTTP handlers. HTTP request metrics live in the
// middleware package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	outreachDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_dispatched_total",
			Help: "Outreach messages handled by the worker",
		},
		[]string{"channel", "status"},
	)

	dataSourcesConnected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "data_sources_connected_total",
			Help: "Data sources switched to connected",
		},
		[]string{"type"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

func RecordOutreachDispatched(channel, status string) {
	outreachDispatched.WithLabelValues(channel, status).Inc()
}

func RecordDataSourceConnected(sourceType string) {
	dataSourcesConnected.WithLabelValues(sourceType).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
