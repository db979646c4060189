// Package observability provides Prometheus metrics and OpenTelemetry tracing
// helpers for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ImageStoreOps counts image store operations by kind and outcome.
	ImageStoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_image_store_operations_total",
		Help: "Total number of image store operations by kind and outcome",
	}, []string{"operation", "outcome"})

	// TokensIssued counts issued API tokens by trigger (register or login).
	TokensIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_tokens_issued_total",
		Help: "Total number of API tokens issued",
	}, []string{"trigger"})
)
