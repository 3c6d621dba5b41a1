// Package metrics holds collectors for the live report stream.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type StreamMetrics struct {
	Clients   prometheus.Gauge
	Delivered prometheus.Counter
	Dropped   *prometheus.CounterVec
}

// NewStreamMetrics registers on reg; nil means the default registry.
func NewStreamMetrics(reg prometheus.Registerer) *StreamMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &StreamMetrics{
		Clients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "finrisk",
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Connected report stream clients",
		}),
		Delivered: f.NewCounter(prometheus.CounterOpts{
			Namespace: "finrisk",
			Subsystem: "stream",
			Name:      "delivered_total",
			Help:      "Report events queued to subscribers",
		}),
		Dropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finrisk",
			Subsystem: "stream",
			Name:      "dropped_total",
			Help:      "Report events not delivered, by reason",
		}, []string{"reason"}),
	}
}
