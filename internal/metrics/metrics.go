// Package metrics defines the Prometheus collectors the API exports.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the service collectors.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	Logins              *prometheus.CounterVec
	EventsCreated       prometheus.Counter
	Registrations       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler", "method"},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		EventsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "league_events_created_total",
				Help: "Total number of league events created",
			},
		),
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_registrations_total",
				Help: "Event registration attempts by result",
			},
			[]string{"result"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.HTTPRequests,
			m.HTTPRequestDuration,
			m.Logins,
			m.EventsCreated,
			m.Registrations,
		)
	}
	return m
}

// Login results.
const (
	LoginOK        = "ok"
	LoginFailed    = "failed"
	LoginThrottled = "throttled"
)

// Registration results.
const (
	RegistrationCreated  = "created"
	RegistrationExisting = "existing"
	RegistrationFull     = "full"
)

// ObserveLogin counts one login attempt. m may be nil.
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

// ObserveEventCreated counts one new event. m may be nil.
func (m *Metrics) ObserveEventCreated() {
	if m == nil {
		return
	}
	m.EventsCreated.Inc()
}

// ObserveRegistration counts one registration attempt. m may be nil.
func (m *Metrics) ObserveRegistration(result string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(result).Inc()
}
