package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of a worker.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewMetrics creates the worker collectors and registers them on reg when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openpermit_worker_requests_total",
				Help: "Total number of requests handled by the worker",
			},
			[]string{"action", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "openpermit_worker_request_duration_seconds",
				Help:    "Duration of request handling",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "openpermit_worker_in_flight",
			Help: "Requests currently being handled",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration, m.InFlight)
	}
	return m
}

func (m *Metrics) observe(action, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(action, status).Inc()
	m.Duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

func (m *Metrics) begin() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *Metrics) end() {
	if m != nil {
		m.InFlight.Dec()
	}
}
