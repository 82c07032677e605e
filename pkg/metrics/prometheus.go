package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	framesTotal       *prometheus.CounterVec
	recognitionsTotal *prometheus.CounterVec
	cacheTotal        *prometheus.CounterVec
	signalsTotal      *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	latency           *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		framesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardsight_frames_processed_total",
				Help: "Total number of frames run through the pipeline",
			},
			[]string{"session"},
		),
		recognitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardsight_recognitions_total",
				Help: "Total number of text recognitions by engine",
			},
			[]string{"engine"},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardsight_price_cache_total",
				Help: "Price cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardsight_signals_total",
				Help: "Total number of deal signals emitted by state",
			},
			[]string{"state"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardsight_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cardsight_operation_duration_seconds",
				Help:    "Duration of pipeline operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFrame records a processed frame for a session.
func (r *Recorder) RecordFrame(sessionID string) {
	r.framesTotal.WithLabelValues(sessionID).Inc()
}

// RecordRecognition records a completed recognition by engine name.
func (r *Recorder) RecordRecognition(engine string) {
	r.recognitionsTotal.WithLabelValues(engine).Inc()
}

// RecordCache records a price cache hit or miss.
func (r *Recorder) RecordCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheTotal.WithLabelValues(outcome).Inc()
}

// RecordSignal records an emitted signal state.
func (r *Recorder) RecordSignal(state string) {
	r.signalsTotal.WithLabelValues(state).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
