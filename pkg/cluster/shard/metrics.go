package shard

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "horaedb"

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics are shared by all shards on a node.
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewMetrics registers and returns the shard operation metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		operationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "shard_operations_total",
			Help:      "Total number of shard and table lifecycle operations, by operation and outcome.",
		}, []string{"operation", "status"}),
		operationDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "shard_operation_duration_seconds",
			Help:      "Duration of shard and table lifecycle operations, including engine I/O.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) observe(operation string, start time.Time, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
