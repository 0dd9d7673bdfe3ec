package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CleaningMetrics counts coordinator operations by outcome.
// A nil *CleaningMetrics is valid and records nothing.
type CleaningMetrics struct {
	operations *prometheus.CounterVec
}

// NewCleaningMetrics creates the collectors and registers them with reg.
func NewCleaningMetrics(reg prometheus.Registerer) (*CleaningMetrics, error) {
	m := &CleaningMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotel_cleaning_operations_total",
				Help: "Cleaning coordinator operations by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}
	if err := reg.Register(m.operations); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe increments the counter for one finished operation.
func (m *CleaningMetrics) Observe(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}
