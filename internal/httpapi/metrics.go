package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts API requests.
	// Labels: method, path, status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgarsift",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration tracks request handling time.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edgarsift",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP request handling in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// PatternsDetected counts patterns produced by analyze and filter
	// calls. Labels: disposition (detected, included, excluded)
	PatternsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgarsift",
			Subsystem: "analysis",
			Name:      "patterns_total",
			Help:      "Total number of patterns by disposition",
		},
		[]string{"disposition"},
	)

	// FailuresAnalyzed counts failures submitted for refinement analysis.
	FailuresAnalyzed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "edgarsift",
			Subsystem: "analysis",
			Name:      "failures_analyzed_total",
			Help:      "Total number of extraction failures analyzed",
		},
	)
)
