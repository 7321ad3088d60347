package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the payment collectors registered on one registry.
type Metrics struct {
	Registrations   *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	GatewayDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "p24",
			Name:      "registrations_total",
			Help:      "Transaction registrations by result.",
		}, []string{"result"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "p24",
			Name:      "notifications_total",
			Help:      "Inbound status notifications by outcome.",
		}, []string{"outcome"}),
		GatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "p24",
			Name:      "gateway_request_duration_seconds",
			Help:      "Duration of outbound processor calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "result"}),
	}

	if reg != nil {
		reg.MustRegister(m.Registrations, m.Notifications, m.GatewayDuration)
	}
	return m
}

// Noop returns unregistered collectors, for tests and tools.
func Noop() *Metrics {
	return New(nil)
}

func (m *Metrics) ObserveGateway(endpoint, result string, d time.Duration) {
	m.GatewayDuration.WithLabelValues(endpoint, result).Observe(d.Seconds())
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
