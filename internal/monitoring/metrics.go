package monitoring

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	moderationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safegram_moderation_decisions_total",
		Help: "Moderation decisions by verdict category and outcome.",
	}, []string{"category", "outcome"})

	classifierFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "safegram_classifier_fallbacks_total",
		Help: "Fail-open classifier fallbacks by cause.",
	}, []string{"cause"})

	classifyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "safegram_classifier_duration_seconds",
		Help:    "Latency of the external classification call.",
		Buckets: prometheus.DefBuckets,
	})

	// fallbackCount feeds the classifier health monitor; the counter vec
	// above cannot be read back cheaply.
	fallbackCount atomic.Int64
)

func RecordDecision(category string, accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	moderationDecisions.WithLabelValues(category, outcome).Inc()
}

func RecordFallback(cause string) {
	classifierFallbacks.WithLabelValues(cause).Inc()
	fallbackCount.Add(1)
}

func ObserveClassification(seconds float64) {
	classifyDuration.Observe(seconds)
}
