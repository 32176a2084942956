package store

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Registration outcomes.
const (
	outcomeAdded     = "added"
	outcomeUnchanged = "unchanged"
	outcomeRejected  = "rejected"
)

// Fetch outcomes.
const (
	fetchLibrary  = "library"
	fetchResolved = "resolved"
	fetchFailed   = "failed"
	fetchExcluded = "excluded"
)

// storeMetrics holds Prometheus metrics for store operations.
type storeMetrics struct {
	registrations *prometheus.CounterVec // By kind and outcome
	fetches       *prometheus.CounterVec // By outcome
}

// newStoreMetrics creates store metrics and registers them with reg. A nil
// registerer leaves the collectors unregistered.
func newStoreMetrics(reg prometheus.Registerer) (*storeMetrics, error) {
	m := &storeMetrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semottr",
			Subsystem: "store",
			Name:      "registrations_total",
			Help:      "Total number of signature registrations by kind and outcome",
		}, []string{"kind", "outcome"}), // outcome: added, unchanged, rejected

		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semottr",
			Subsystem: "store",
			Name:      "fetch_total",
			Help:      "Total number of missing-dependency fetch attempts by outcome",
		}, []string{"outcome"}), // outcome: library, resolved, failed, excluded
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.registrations, err = register(reg, m.registrations); err != nil {
		return nil, err
	}
	if m.fetches, err = register(reg, m.fetches); err != nil {
		return nil, err
	}
	return m, nil
}

// register registers cv, reusing an identical collector that is already
// registered.
func register(reg prometheus.Registerer, cv *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return cv, nil
}

func (m *storeMetrics) recordRegistration(kind, outcome string) {
	m.registrations.WithLabelValues(kind, outcome).Inc()
}

func (m *storeMetrics) recordFetch(outcome string) {
	m.fetches.WithLabelValues(outcome).Inc()
}
