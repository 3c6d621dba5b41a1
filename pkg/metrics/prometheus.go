package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	verdicts    *prometheus.CounterVec
	screenings  *prometheus.CounterVec
	ingested    *prometheus.CounterVec
	cache       *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New registers the recorder's collectors on reg; nil means the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		verdicts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finrisk_rule_verdicts_total",
				Help: "Rule verdicts produced by the engine",
			},
			[]string{"group", "verdict"},
		),
		screenings: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finrisk_screenings_total",
				Help: "Completed screenings by source",
			},
			[]string{"source"},
		),
		ingested: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finrisk_snapshots_ingested_total",
				Help: "Snapshots stored, by ingest channel",
			},
			[]string{"channel"},
		),
		cache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finrisk_report_cache_total",
				Help: "Report cache lookups by result",
			},
			[]string{"result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finrisk_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finrisk_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordVerdict counts n verdicts of one kind in one rule group.
func (r *Recorder) RecordVerdict(group, verdict string, n int) {
	if n <= 0 {
		return
	}
	r.verdicts.WithLabelValues(group, verdict).Add(float64(n))
}

// RecordScreening counts a finished screening, e.g. source "stored" or "adhoc".
func (r *Recorder) RecordScreening(source string) {
	r.screenings.WithLabelValues(source).Inc()
}

// RecordIngest counts snapshots stored through a channel ("http", "kafka", "demo").
func (r *Recorder) RecordIngest(channel string, snapshots int) {
	r.ingested.WithLabelValues(channel).Add(float64(snapshots))
}

// RecordCache counts a report cache hit or miss.
func (r *Recorder) RecordCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cache.WithLabelValues(result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
