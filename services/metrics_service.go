package services

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolkit_http_requests_total",
			Help: "Total HTTP requests served by the keeper API",
		},
		[]string{"path"},
	)

	requestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolkit_http_request_errors_total",
			Help: "HTTP requests answered with status >= 400",
		},
		[]string{"path"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toolkit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	phaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toolkit_lifecycle_phase_duration_seconds",
			Help:    "Duration of one lifecycle fan-out across all registered instances",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"phase"},
	)

	lifecycleErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolkit_lifecycle_errors_total",
			Help: "Lifecycle calls that returned an error or panicked",
		},
		[]string{"phase", "service"},
	)

	registeredInstances = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "toolkit_registered_instances",
			Help: "Instances currently registered",
		},
		[]string{"kind"},
	)

	resets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolkit_resets_total",
			Help: "Configuration resets by result",
		},
		[]string{"result"},
	)

	resetDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "toolkit_reset_duration_seconds",
			Help:    "Duration of ResetWithConfiguration",
			Buckets: prometheus.DefBuckets,
		},
	)

	toolkitState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "toolkit_state",
			Help: "1 for the orchestrator's current state",
		},
		[]string{"state"},
	)
)

// 本地计数器，供健康检查接口使用
var (
	totalRequests atomic.Int64
	totalErrors   atomic.Int64
)

func init() {
	prometheus.MustRegister(requestCount, requestErrors, requestDuration)
	prometheus.MustRegister(phaseDuration, lifecycleErrors, registeredInstances)
	prometheus.MustRegister(resets, resetDuration, toolkitState)
}

func IncrementRequestCount(path string) {
	requestCount.WithLabelValues(path).Inc()
	totalRequests.Add(1)
}

func IncrementErrorCount(path string) {
	requestErrors.WithLabelValues(path).Inc()
	totalErrors.Add(1)
}

func RecordRequestDuration(path string, seconds float64) {
	requestDuration.WithLabelValues(path).Observe(seconds)
}

func GetTotalRequestCount() int64 {
	return totalRequests.Load()
}

func GetTotalErrorCount() int64 {
	return totalErrors.Load()
}

func observePhase(phase string, d time.Duration) {
	phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func incLifecycleError(phase, service string) {
	lifecycleErrors.WithLabelValues(phase, service).Inc()
}

func setRegisteredMetric(systems, services int) {
	registeredInstances.WithLabelValues("system").Set(float64(systems))
	registeredInstances.WithLabelValues("service").Set(float64(services))
}

func observeReset(d time.Duration, err error) {
	resetDuration.Observe(d.Seconds())
	result := "success"
	if err != nil {
		result = "failure"
	}
	resets.WithLabelValues(result).Inc()
}

func setStateMetric(from, to string) {
	if from != "" {
		toolkitState.WithLabelValues(from).Set(0)
	}
	toolkitState.WithLabelValues(to).Set(1)
}
