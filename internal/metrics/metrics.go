// Package metrics exposes Prometheus counters for chat exchanges and the
// response pipeline. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
)

// Exchange outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// maxKindLabels caps the distinct raw kinds recorded; model output is
// untrusted and would otherwise grow the label set without bound.
const maxKindLabels = 50

const otherKind = "other"

type Metrics struct {
	registry        *prometheus.Registry
	exchanges       *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	decodeModes     *prometheus.CounterVec
	unknownKinds    *prometheus.CounterVec

	mu    sync.Mutex
	kinds map[string]struct{}
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		exchanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthcopilot_exchanges_total",
				Help: "Chat exchanges by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "healthcopilot_provider_duration_seconds",
				Help:    "Duration of model provider calls",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		),
		decodeModes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthcopilot_decode_mode_total",
				Help: "Rendered responses by decoding path",
			},
			[]string{"mode"},
		),
		unknownKinds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "healthcopilot_unknown_component_total",
				Help: "Components outside the vocabulary seen in responses",
			},
			[]string{"kind"},
		),
		kinds: make(map[string]struct{}),
	}
	m.registry.MustRegister(
		m.exchanges,
		m.providerLatency,
		m.decodeModes,
		m.unknownKinds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveExchange records one provider call.
func (m *Metrics) ObserveExchange(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.exchanges.WithLabelValues(provider, outcome).Inc()
	m.providerLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveTree records which decoding path produced root and every
// unrecognized kind inside it.
func (m *Metrics) ObserveTree(root protocol.Node) {
	if m == nil || root == nil {
		return
	}
	mode := string(protocol.ModeStructured)
	switch root.(type) {
	case protocol.Segments:
		mode = string(protocol.ModeSegments)
	case protocol.Literal:
		mode = string(protocol.ModeLiteral)
	}
	m.decodeModes.WithLabelValues(mode).Inc()

	protocol.Walk(root, func(n protocol.Node) bool {
		if u, ok := n.(protocol.Unrecognized); ok && u.Reason == protocol.ReasonUnknownKind {
			m.unknownKinds.WithLabelValues(m.kindLabel(u.RawKind)).Inc()
		}
		return true
	})
}

func (m *Metrics) kindLabel(kind string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.kinds[kind]; ok {
		return kind
	}
	if len(m.kinds) >= maxKindLabels {
		return otherKind
	}
	m.kinds[kind] = struct{}{}
	return kind
}
