package oraclestats

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace is the prometheus namespace of all oracle metrics
	Namespace = "tsoracle"
	subsystem = "oracle"
)

// Metrics is used to record metrics of the oracle
type Metrics struct {
	// UpdatesAccepted is the number of accepted updates.
	UpdatesAccepted prometheus.Counter
	// UpdatesRejected is the number of rejected updates by rejection reason.
	UpdatesRejected *prometheus.CounterVec
	// AdminOperations is the number of successful owner operations by
	// operation name.
	AdminOperations *prometheus.CounterVec
	// Timestamp is the latest accepted timestamp in milliseconds.
	Timestamp prometheus.Gauge
	// LastUpdateTime is the wall clock time in seconds of the last accepted
	// update.
	LastUpdateTime prometheus.Gauge
	// Paused is 1 if updates are suspended, 0 otherwise.
	Paused prometheus.Gauge
	// AuthorizedUpdaters is the number of explicitly authorized updaters.
	AuthorizedUpdaters prometheus.Gauge
}

// NewMetrics returns Metrics which can be used to record metrics. They are
// not registered anywhere until Register is called.
func NewMetrics() *Metrics {
	return &Metrics{
		UpdatesAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "updates_accepted_total",
			Help:      "Number of accepted timestamp updates",
		}),
		UpdatesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "updates_rejected_total",
			Help:      "Number of rejected timestamp updates",
		}, []string{"reason"}),
		AdminOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "admin_operations_total",
			Help:      "Number of successful owner operations",
		}, []string{"operation"}),
		Timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "timestamp_ms",
			Help:      "Latest accepted timestamp in milliseconds since the epoch",
		}),
		LastUpdateTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "last_update_time_seconds",
			Help:      "Wall clock time of the last accepted update",
		}),
		Paused: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "paused",
			Help:      "1 if updates are suspended, 0 otherwise",
		}),
		AuthorizedUpdaters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "authorized_updaters",
			Help:      "Number of explicitly authorized updaters",
		}),
	}
}

// Collectors returns all the collectors of m
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.UpdatesAccepted,
		m.UpdatesRejected,
		m.AdminOperations,
		m.Timestamp,
		m.LastUpdateTime,
		m.Paused,
		m.AuthorizedUpdaters,
	}
}

// Register registers all the collectors of m with r
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
