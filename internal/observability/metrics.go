package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "impact_sim"

// Metrics holds the Prometheus collectors for the simulation pipeline, the
// HTTP API and the NASA NeoWs client.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	Simulations *prometheus.CounterVec // labels: source={manual,neo}, outcome={success,invalid,error}

	// NeoWs metrics.
	NEORequests    *prometheus.CounterVec   // labels: method={feed,lookup}, outcome={success,error,not_found}
	NEOCache       *prometheus.CounterVec   // labels: method={feed,lookup}, result={hit,miss,error}
	NEOAPIDuration *prometheus.HistogramVec // labels: method={feed,lookup}
	NEOEnabled     prometheus.Gauge
}

// NewMetrics creates all metrics and registers them with the default
// Prometheus registry. Call it once per process.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered metrics, so tests can build as
// many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total simulation requests read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total simulation results written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total requests skipped because they could not be simulated.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-simulate-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		Simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Impact simulations by parameter source and outcome.",
		}, []string{"source", "outcome"}),
		NEORequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "neo_requests_total",
			Help:      "NASA NeoWs API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		NEOCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "neo_cache_total",
			Help:      "NeoWs response cache lookups by method and result.",
		}, []string{"method", "result"}),
		NEOAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "neo_api_duration_seconds",
			Help:      "NASA NeoWs request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		NEOEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "neo_enabled",
			Help:      "1 when the NASA NeoWs integration is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.Simulations,
		m.NEORequests,
		m.NEOCache,
		m.NEOAPIDuration,
		m.NEOEnabled,
	}
}
