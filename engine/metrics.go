package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics provides Prometheus instrumentation for tool execution: one
// counter/histogram pair per concern, registered into a dedicated
// registry so the core never depends on the global default registry.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls        *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec
	toolErrors       *prometheus.CounterVec
	parallelInFlight prometheus.Gauge
}

// NewMetrics creates and registers the engine's metric collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cortex_tool_calls_total",
			Help: "Total tool executions by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		toolCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cortex_tool_call_duration_seconds",
			Help:    "Tool execution duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		toolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cortex_tool_errors_total",
			Help: "Total tool execution errors by tool name.",
		}, []string{"tool"}),
		parallelInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cortex_parallel_tools_in_flight",
			Help: "Number of tool executions currently running under the Parallel strategy.",
		}),
	}

	reg.MustRegister(m.toolCalls, m.toolCallDuration, m.toolErrors, m.parallelInFlight)
	return m
}

// Registry exposes the underlying Prometheus registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) observeToolCall(tool string, success bool, seconds float64) {
	outcome := "success"
	if !success {
		outcome = "failure"
		m.toolErrors.WithLabelValues(tool).Inc()
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolCallDuration.WithLabelValues(tool).Observe(seconds)
}

func (m *Metrics) incParallel() { m.parallelInFlight.Inc() }
func (m *Metrics) decParallel() { m.parallelInFlight.Dec() }
