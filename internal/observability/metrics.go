package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// risk-analysis pipeline.
type Metrics struct {
	EventsConsumed   prometheus.Counter
	ParseErrors      prometheus.Counter
	ReportsPublished prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Analysis metrics.
	WindowEvents      prometheus.Gauge
	BatchSize         prometheus.Histogram
	AnalysisDuration  prometheus.Histogram
	AlertsBySeverity  *prometheus.CounterVec // labels: severity={CRITICAL,HIGH,MEDIUM,OK}
	ProfilesPerReport prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests prometheus.Counter
	GeocodeErrors   prometheus.Counter
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeEnabled  prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EventsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telemetry_risk",
			Name:      "events_consumed_total",
			Help:      "Total raw events read from the source topic.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telemetry_risk",
			Name:      "parse_errors_total",
			Help:      "Total raw events skipped because the payload could not be parsed.",
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telemetry_risk",
			Name:      "reports_published_total",
			Help:      "Total risk reports written to the sink topic.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "telemetry_risk",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		WindowEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "telemetry_risk",
			Name:      "window_events",
			Help:      "Events currently held in the analysis window.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "telemetry_risk",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "telemetry_risk",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of one full report computation over the window.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		AlertsBySeverity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry_risk",
			Name:      "alerts_total",
			Help:      "Published alerts by severity.",
		}, []string{"severity"}),
		ProfilesPerReport: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "telemetry_risk",
			Name:      "profiles_per_report",
			Help:      "Operator plus vehicle profiles per published report.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		GeocodeRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telemetry_risk",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding lookups issued.",
		}),
		GeocodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "telemetry_risk",
			Name:      "geocode_errors_total",
			Help:      "Reverse geocoding lookups that failed.",
		}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry_risk",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "telemetry_risk",
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.EventsConsumed,
		m.ParseErrors,
		m.ReportsPublished,
		m.PipelineRunning,
		m.WindowEvents,
		m.BatchSize,
		m.AnalysisDuration,
		m.AlertsBySeverity,
		m.ProfilesPerReport,
		m.GeocodeRequests,
		m.GeocodeErrors,
		m.GeocodeCache,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EventsConsumed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "telemetry_risk", Name: "events_consumed_total"}),
		ParseErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "telemetry_risk", Name: "parse_errors_total"}),
		ReportsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "telemetry_risk", Name: "reports_published_total"}),
		PipelineRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "telemetry_risk", Name: "pipeline_running"}),
		WindowEvents:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "telemetry_risk", Name: "window_events"}),
		BatchSize:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "telemetry_risk", Name: "batch_size"}),
		AnalysisDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "telemetry_risk", Name: "analysis_duration_seconds"}),
		AlertsBySeverity:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "telemetry_risk", Name: "alerts_total"}, []string{"severity"}),
		ProfilesPerReport: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "telemetry_risk", Name: "profiles_per_report"}),
		GeocodeRequests:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "telemetry_risk", Name: "geocode_requests_total"}),
		GeocodeErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "telemetry_risk", Name: "geocode_errors_total"}),
		GeocodeCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "telemetry_risk", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeEnabled:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "telemetry_risk", Name: "geocode_enabled"}),
	}
}
