package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"speckeeper/internal/logger"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speckeeper_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"handler"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "speckeeper_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)

	requestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speckeeper_request_errors_total",
			Help: "HTTP requests answered with status >= 400",
		},
		[]string{"handler"},
	)

	specLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speckeeper_spec_load_total",
			Help: "Spec file loads by schema generation",
		},
		[]string{"schema"},
	)

	specLoadFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speckeeper_spec_load_failures_total",
			Help: "Spec file loads that failed",
		},
		[]string{"reason"},
	)

	specValidateFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speckeeper_spec_validate_failures_total",
			Help: "Bind contract validation failures by kind",
		},
		[]string{"kind"},
	)

	compositeResolves = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "speckeeper_composite_resolve_total",
			Help: "Composite member bind resolutions",
		},
	)

	totalRequests int64
	totalErrors   int64
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(requestErrors)
	prometheus.MustRegister(specLoads)
	prometheus.MustRegister(specLoadFailures)
	prometheus.MustRegister(specValidateFailures)
	prometheus.MustRegister(compositeResolves)
}

func IncrementRequestCount(handler string) {
	requestCount.WithLabelValues(handler).Inc()
	atomic.AddInt64(&totalRequests, 1)
}

func RecordRequestDuration(handler string, seconds float64) {
	requestDuration.WithLabelValues(handler).Observe(seconds)
}

func IncrementErrorCount(handler string) {
	requestErrors.WithLabelValues(handler).Inc()
	atomic.AddInt64(&totalErrors, 1)
}

func GetTotalRequestCount() int64 {
	return atomic.LoadInt64(&totalRequests)
}

func GetTotalErrorCount() int64 {
	return atomic.LoadInt64(&totalErrors)
}

func CountSpecLoad(schema string) {
	specLoads.WithLabelValues(schema).Inc()
}

func CountSpecLoadFailure(reason string) {
	specLoadFailures.WithLabelValues(reason).Inc()
}

func CountValidateFailure(kind string) {
	specValidateFailures.WithLabelValues(kind).Inc()
}

func CountCompositeResolve() {
	compositeResolves.Inc()
}

/**
 * Push metrics to a Pushgateway on a fixed interval
 * @param {context.Context} ctx - Context that stops the loop when done
 * @param {string} pushGatewayAddr - Pushgateway address
 * @description Runs until the context is cancelled; push failures are
 * logged and the loop keeps going.
 */
func PushMetricsLoop(ctx context.Context, pushGatewayAddr string) {
	if pushGatewayAddr == "" {
		return
	}
	pusher := push.New(pushGatewayAddr, "speckeeper").Gatherer(prometheus.DefaultGatherer)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := pusher.Push(); err != nil {
				logger.Warnf("metrics push to %s failed: %v", pushGatewayAddr, err)
			}
		case <-ctx.Done():
			return
		}
	}
}
