// Package metrics wires the relay's Prometheus collectors: queue depth,
// in-flight batches, key-pool size, batch/transfer outcomes, and RPC call
// latency by method.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the relay registers. Construct one with
// New and pass it by reference to every component that reports a metric.
type Metrics struct {
	QueueDepth      prometheus.Gauge
	InFlightBatches prometheus.Gauge
	KeyPoolSize     prometheus.Gauge
	BatchesTotal    *prometheus.CounterVec // labeled by outcome: success/failure
	TransfersTotal  *prometheus.CounterVec // labeled by outcome: success/failure
	RPCLatency      *prometheus.HistogramVec
}

// New constructs and registers every collector against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ftrelay",
			Name:      "queue_depth",
			Help:      "Number of transfer requests currently buffered in the admission queue.",
		}),
		InFlightBatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ftrelay",
			Name:      "in_flight_batches",
			Help:      "Number of batches currently being signed or submitted.",
		}),
		KeyPoolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ftrelay",
			Name:      "key_pool_size",
			Help:      "Number of access keys available to the signing key pool.",
		}),
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ftrelay",
			Name:      "batches_total",
			Help:      "Total number of batches dispatched, by outcome.",
		}, []string{"outcome"}),
		TransfersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ftrelay",
			Name:      "transfers_total",
			Help:      "Total number of individual transfers processed, by outcome.",
		}, []string{"outcome"}),
		RPCLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ftrelay",
			Name:      "rpc_call_duration_seconds",
			Help:      "Latency of NEAR JSON-RPC calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(m.QueueDepth, m.InFlightBatches, m.KeyPoolSize, m.BatchesTotal, m.TransfersTotal, m.RPCLatency)
	return m
}
