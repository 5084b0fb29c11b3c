// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_pipeline_requests_total",
			Help: "Total number of routed queries by action taken and outcome",
		},
		[]string{"action", "outcome"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "query_pipeline_duration_seconds",
			Help:    "End-to-end duration of a routed query",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"outcome"},
	)

	ClassifierFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classifier_fallbacks_total",
			Help: "Classifications that fell back to the deterministic decision",
		},
		[]string{"reason"},
	)

	AnalyticsFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_fetch_total",
			Help: "Analytics provider fetches by data category and outcome",
		},
		[]string{"category", "outcome"},
	)

	FallbackResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_responses_total",
			Help: "Responses produced by the fallback controller by kind",
		},
		[]string{"kind"},
	)
)
