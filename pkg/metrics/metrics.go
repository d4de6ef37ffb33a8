package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder observes assistant, capability and handler outcomes.
type Recorder interface {
	ObserveAssistant(assistant, status string, elapsed time.Duration)
	ObserveCapability(agent, tool, status string)
	ObserveResponse(statusCode int)
}

// Noop discards every observation.
type Noop struct{}

func (Noop) ObserveAssistant(string, string, time.Duration) {}
func (Noop) ObserveCapability(string, string, string)       {}
func (Noop) ObserveResponse(int)                            {}

// OrNoop returns r, or Noop when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return Noop{}
	}
	return r
}

// Prometheus records to a private registry.
type Prometheus struct {
	registry *prometheus.Registry

	assistantInvocations *prometheus.CounterVec
	assistantDuration    *prometheus.HistogramVec
	capabilityCalls      *prometheus.CounterVec
	handlerResponses     *prometheus.CounterVec
}

func NewPrometheus(namespace string) *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		assistantInvocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_invocations_total",
			Help:      "Assistant invocations by assistant and outcome.",
		}, []string{"assistant", "status"}),
		assistantDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assistant_invocation_duration_seconds",
			Help:      "Assistant invocation latency.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"assistant"}),
		capabilityCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capability_calls_total",
			Help:      "Tool calls issued by an agent, by outcome.",
		}, []string{"agent", "tool", "status"}),
		handlerResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_responses_total",
			Help:      "Request handler responses by status code.",
		}, []string{"status_code"}),
	}
}

func (p *Prometheus) ObserveAssistant(assistant, status string, elapsed time.Duration) {
	p.assistantInvocations.WithLabelValues(assistant, status).Inc()
	p.assistantDuration.WithLabelValues(assistant).Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveCapability(agent, tool, status string) {
	p.capabilityCalls.WithLabelValues(agent, tool, status).Inc()
}

func (p *Prometheus) ObserveResponse(statusCode int) {
	p.handlerResponses.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
