// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cantonese_stt"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Guard metrics
	ValidationRejects *prometheus.CounterVec
	RateLimitRejects  *prometheus.CounterVec

	// Transcription metrics
	STTLatency        *prometheus.HistogramVec
	STTErrors         *prometheus.CounterVec
	TokensPerResponse prometheus.Histogram
	SegmentsBuilt     prometheus.Histogram

	// Speaker naming metrics
	NamingResolutions *prometheus.CounterVec
	NamingLatency     prometheus.Histogram

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total relay requests by route and outcome",
		}, []string{"route", "outcome"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "End-to-end relay request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"route"}),

		ValidationRejects: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejects_total",
			Help:      "Total requests rejected by audio limits validation",
		}, []string{"reason"}),
		RateLimitRejects: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejects_total",
			Help:      "Total requests rejected by the per-client rate window",
		}, []string{"namespace"}),

		STTLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stt_latency_seconds",
			Help:      "Speech-to-text engine call latency in seconds",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"provider"}),
		STTErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_errors_total",
			Help:      "Total STT engine errors",
		}, []string{"provider"}),
		TokensPerResponse: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tokens_per_response",
			Help:      "Word tokens per transcription response",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
		}),
		SegmentsBuilt: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "segments_per_response",
			Help:      "Speaker segments reconstructed per transcription response",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),

		NamingResolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "naming_resolutions_total",
			Help:      "Total speaker naming resolutions by outcome",
		}, []string{"outcome"}),
		NamingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "naming_latency_seconds",
			Help:      "Speaker naming engine call latency in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordRequest records one relay request with its outcome and duration.
func (m *Metrics) RecordRequest(route, outcome string, durationSeconds float64) {
	m.RequestsTotal.WithLabelValues(route, outcome).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordValidationReject records a hard-limit rejection.
func (m *Metrics) RecordValidationReject(reason string) {
	m.ValidationRejects.WithLabelValues(reason).Inc()
}

// RecordRateLimitReject records a rate-window rejection.
func (m *Metrics) RecordRateLimitReject(ns string) {
	m.RateLimitRejects.WithLabelValues(ns).Inc()
}

// RecordTranscription records a completed STT call and the size of its result.
func (m *Metrics) RecordTranscription(provider string, latencySeconds float64, tokens, segments int) {
	m.STTLatency.WithLabelValues(provider).Observe(latencySeconds)
	m.TokensPerResponse.Observe(float64(tokens))
	m.SegmentsBuilt.Observe(float64(segments))
}

// RecordSTTError records an STT engine failure.
func (m *Metrics) RecordSTTError(provider string) {
	m.STTErrors.WithLabelValues(provider).Inc()
}

// RecordNaming records a speaker naming resolution.
// Outcome is "identified", "empty" or "error".
func (m *Metrics) RecordNaming(outcome string, latencySeconds float64) {
	m.NamingResolutions.WithLabelValues(outcome).Inc()
	m.NamingLatency.Observe(latencySeconds)
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
