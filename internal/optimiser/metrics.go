package optimiser

import "github.com/prometheus/client_golang/prometheus"

// Outcomes a task evaluation can end in, used as the metrics label.
const (
	OutcomeSimulated = "simulated"
	OutcomeCached    = "cached"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	tasks    *prometheus.CounterVec
	duration prometheus.Histogram
	running  prometheus.Gauge
}

// NewMetrics creates the optimiser metrics and registers them with reg when
// it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "site_sim_tasks_total",
				Help: "Scenario tasks evaluated by the optimiser, by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "site_sim_task_duration_seconds",
				Help:    "Wall time to simulate one scenario task",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
		),
		running: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "site_sim_optimisations_running",
				Help: "Optimisation runs in progress",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.tasks, m.duration, m.running)
	}
	return m
}
