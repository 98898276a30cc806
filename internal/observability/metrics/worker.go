// Package metrics exposes Prometheus metrics for the reconcile
// worker.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	reconcileTotal    *prometheus.CounterVec
	reconcileDuration *prometheus.HistogramVec
	reconcileInFlight prometheus.Gauge
	recoveryActions   *prometheus.CounterVec
	queueLag          prometheus.Histogram
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	reconcileTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docuflow",
			Subsystem: "worker",
			Name:      "reconcile_total",
			Help:      "Total reconciled documents by outcome.",
		},
		[]string{"service", "outcome"},
	)
	reconcileDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docuflow",
			Subsystem: "worker",
			Name:      "reconcile_duration_seconds",
			Help:      "Document reconciliation duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "outcome"},
	)
	reconcileInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docuflow",
			Subsystem: "worker",
			Name:      "reconcile_in_flight",
			Help:      "Number of in-flight reconcile jobs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	recoveryActions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docuflow",
			Subsystem: "worker",
			Name:      "recovery_actions_total",
			Help:      "Recovery actions executed by type and error category.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"action", "category"},
	)
	queueLag := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docuflow",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document upload and reconcile start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(reconcileTotal, reconcileDuration, reconcileInFlight, recoveryActions, queueLag)

	return &WorkerMetrics{
		registry:          registry,
		reconcileTotal:    reconcileTotal,
		reconcileDuration: reconcileDuration,
		reconcileInFlight: reconcileInFlight,
		recoveryActions:   recoveryActions,
		queueLag:          queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartReconcile() {
	m.reconcileInFlight.Inc()
}

func (m *WorkerMetrics) FinishReconcile(service string, duration time.Duration, err error) {
	m.reconcileInFlight.Dec()

	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	m.reconcileTotal.WithLabelValues(service, outcome).Inc()
	m.reconcileDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveRecoveryAction(action, category string) {
	m.recoveryActions.WithLabelValues(action, category).Inc()
}

func (m *WorkerMetrics) ObserveQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.Observe(lag.Seconds())
}
