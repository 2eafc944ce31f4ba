// Package metrics defines the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "twitchchat"

// Metrics groups the collectors updated by the chat pipeline.
type Metrics struct {
	// LinesTotal counts received IRC lines by account and command.
	LinesTotal *prometheus.CounterVec
	// ParseErrorsTotal counts lines that could not be tokenized.
	ParseErrorsTotal *prometheus.CounterVec
	// EventsTotal counts published events by account and kind.
	EventsTotal *prometheus.CounterVec
	// HandlerPanicsTotal counts recovered subscriber panics by kind.
	HandlerPanicsTotal *prometheus.CounterVec
	// WebSocketClients is the number of connected /events clients.
	WebSocketClients prometheus.Gauge
	// WebSocketDroppedTotal counts envelopes dropped for slow clients.
	WebSocketDroppedTotal prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LinesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "irc_lines_total",
			Help:      "IRC lines received by account and command",
		}, []string{"account", "command"}),
		ParseErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "irc_parse_errors_total",
			Help:      "IRC lines that could not be parsed",
		}, []string{"account"}),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Chat events published by account and kind",
		}, []string{"account", "kind"}),
		HandlerPanicsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_handler_panics_total",
			Help:      "Recovered panics in event subscribers by kind",
		}, []string{"kind"}),
		WebSocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected event stream clients",
		}),
		WebSocketDroppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_dropped_total",
			Help:      "Events dropped because a stream client was too slow",
		}),
	}

	reg.MustRegister(
		m.LinesTotal,
		m.ParseErrorsTotal,
		m.EventsTotal,
		m.HandlerPanicsTotal,
		m.WebSocketClients,
		m.WebSocketDroppedTotal,
	)

	return m
}

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves the metrics in reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
