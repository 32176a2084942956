package expand

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semottr/diag"
)

// expandMetrics holds Prometheus metrics for expansion.
type expandMetrics struct {
	instances   *prometheus.CounterVec // By outcome: emitted, failed
	diagnostics *prometheus.CounterVec // By severity
}

// newExpandMetrics creates expansion metrics and registers them with reg.
// A nil registerer leaves the collectors unregistered.
func newExpandMetrics(reg prometheus.Registerer) (*expandMetrics, error) {
	m := &expandMetrics{
		instances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semottr",
			Subsystem: "expand",
			Name:      "instances_total",
			Help:      "Total number of base instances emitted or instances that failed to expand",
		}, []string{"outcome"}),

		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semottr",
			Subsystem: "expand",
			Name:      "diagnostics_total",
			Help:      "Total number of expansion diagnostics by severity",
		}, []string{"severity"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, cv := range []**prometheus.CounterVec{&m.instances, &m.diagnostics} {
		if err := reg.Register(*cv); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, err
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, err
			}
			*cv = existing
		}
	}
	return m, nil
}

func (m *expandMetrics) recordInstance(outcome string) {
	m.instances.WithLabelValues(outcome).Inc()
}

func (m *expandMetrics) recordMessages(msgs []diag.Message) {
	for _, msg := range msgs {
		m.diagnostics.WithLabelValues(msg.Severity.String()).Inc()
	}
}
