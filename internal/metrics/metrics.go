package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the collectors exported on /metrics
type Metrics struct {
	Registry *prometheus.Registry

	ServiceOps         *prometheus.CounterVec
	ServiceLatency     *prometheus.HistogramVec
	StaleResults       *prometheus.CounterVec
	NotificationsFired *prometheus.CounterVec
	AuthAttempts       *prometheus.CounterVec
	UploadsRejected    prometheus.Counter
}

// New builds a registry with the process collectors and MedMinder metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		ServiceOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medminder",
			Name:      "service_operations_total",
			Help:      "Simulated service operations by entity, operation and outcome.",
		}, []string{"entity", "op", "outcome"}),
		ServiceLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medminder",
			Name:      "service_operation_seconds",
			Help:      "Duration of simulated service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "op"}),
		StaleResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medminder",
			Name:      "stale_fetch_results_total",
			Help:      "Fetch results discarded because the user navigated away.",
		}, []string{"entity"}),
		NotificationsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medminder",
			Name:      "notifications_fired_total",
			Help:      "Reminder notifications delivered.",
		}, []string{"kind"}),
		AuthAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medminder",
			Name:      "auth_attempts_total",
			Help:      "Login and registration attempts by outcome.",
		}, []string{"action", "outcome"}),
		UploadsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medminder",
			Name:      "uploads_rejected_total",
			Help:      "Health record uploads rejected before reading.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ServiceOps,
		m.ServiceLatency,
		m.StaleResults,
		m.NotificationsFired,
		m.AuthAttempts,
		m.UploadsRejected,
	)
	return m
}

// Outcome maps an error to a label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
