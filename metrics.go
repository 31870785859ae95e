package openpermit

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors of a client.
type Metrics struct {
	Pending prometheus.Gauge
	Stray   prometheus.Counter
	Calls   *prometheus.CounterVec
}

// NewMetrics creates the client collectors and registers them on reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "openpermit_client_pending_calls",
			Help: "Calls waiting for a worker response",
		}),
		Stray: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "openpermit_client_stray_messages_total",
			Help: "Worker messages that matched no pending call",
		}),
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openpermit_client_calls_total",
				Help: "Total number of calls issued by the client",
			},
			[]string{"action", "status"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Pending, m.Stray, m.Calls)
	}
	return m
}

func (m *Metrics) setPending(n int) {
	if m != nil {
		m.Pending.Set(float64(n))
	}
}

func (m *Metrics) stray() {
	if m != nil {
		m.Stray.Inc()
	}
}

func (m *Metrics) call(action string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Calls.WithLabelValues(action, status).Inc()
}
