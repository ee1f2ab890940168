package reminder

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the reminder engine's Prometheus collectors.
type Metrics struct {
	fired              *prometheus.CounterVec
	deliveryFailures   *prometheus.CounterVec
	evaluations        *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
}

// NewMetrics creates the reminder collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminders_fired_total",
				Help: "Reminders handed to the delivery collaborator, by threshold bucket.",
			},
			[]string{"bucket"},
		),
		deliveryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_delivery_failures_total",
				Help: "Reminders whose delivery attempt returned an error, by threshold bucket.",
			},
			[]string{"bucket"},
		),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_evaluations_total",
				Help: "Reminder evaluation cycles, by result.",
			},
			[]string{"result"},
		),
		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reminder_evaluation_duration_seconds",
				Help:    "Duration of reminder evaluation cycles.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	for _, c := range []prometheus.Collector{m.fired, m.deliveryFailures, m.evaluations, m.evaluationDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeFired(b Bucket) {
	if m == nil {
		return
	}
	m.fired.WithLabelValues(b.String()).Inc()
}

func (m *Metrics) observeDeliveryFailure(b Bucket) {
	if m == nil {
		return
	}
	m.deliveryFailures.WithLabelValues(b.String()).Inc()
}

func (m *Metrics) observeEvaluation(result string, seconds float64) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(result).Inc()
	m.evaluationDuration.Observe(seconds)
}
