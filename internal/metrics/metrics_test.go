package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLogin(LoginOK)
	m.ObserveLogin(LoginFailed)
	m.ObserveLogin(LoginFailed)
	m.ObserveEventCreated()
	m.ObserveRegistration(RegistrationFull)

	require.Equal(t, float64(2), testutil.ToFloat64(m.Logins.WithLabelValues(LoginFailed)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.EventsCreated))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Registrations.WithLabelValues(RegistrationFull)))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveLogin(LoginOK)
	m.ObserveEventCreated()
	m.ObserveRegistration(RegistrationCreated)
}
