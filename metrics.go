// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional set of counters the engine feeds. A nil *Metrics
// is valid and does nothing, so instrumentation stays out of the hot path
// for users who don't want it.
type Metrics struct {
	LinesReceived prometheus.Counter
	MessagesSent  prometheus.Counter
	PingsSent     prometheus.Counter
	Disconnects   prometheus.Counter
	EventsFired   *prometheus.CounterVec
}

// NewMetrics builds and registers the engine's counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LinesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warren",
			Name:      "lines_received_total",
			Help:      "Raw lines read from the server.",
		}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warren",
			Name:      "messages_sent_total",
			Help:      "Messages written to the server.",
		}),
		PingsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warren",
			Name:      "keepalive_pings_sent_total",
			Help:      "Keepalive pings sent after server silence.",
		}),
		Disconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warren",
			Name:      "disconnects_total",
			Help:      "Times the connection reached the disconnected state.",
		}),
		EventsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warren",
			Name:      "events_fired_total",
			Help:      "Events delivered to subscribers.",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.LinesReceived, m.MessagesSent, m.PingsSent, m.Disconnects, m.EventsFired)
	return m
}

func (m *Metrics) lineReceived() {
	if m != nil {
		m.LinesReceived.Inc()
	}
}

func (m *Metrics) messageSent() {
	if m != nil {
		m.MessagesSent.Inc()
	}
}

func (m *Metrics) pingSent() {
	if m != nil {
		m.PingsSent.Inc()
	}
}

func (m *Metrics) disconnected() {
	if m != nil {
		m.Disconnects.Inc()
	}
}

func (m *Metrics) eventFired(kind string) {
	if m != nil {
		m.EventsFired.WithLabelValues(kind).Inc()
	}
}
