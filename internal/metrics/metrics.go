package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters/histograms for booking and persistence flows.
type ClinicMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	statusChangesTotal *prometheus.CounterVec
	persistenceTotal   *prometheus.CounterVec
	persistenceLatency *prometheus.HistogramVec
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Appointment create/update attempts by flow and outcome",
		}, []string{"flow", "outcome"}),
		statusChangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "status_changes_total",
			Help:      "Appointment status changes by target status",
		}, []string{"status"}),
		persistenceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "storage",
			Name:      "saves_total",
			Help:      "Whole-document saves by key and result",
		}, []string{"key", "result"}),
		persistenceLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "storage",
			Name:      "save_latency_seconds",
			Help:      "Latency of whole-document saves",
			Buckets:   prometheus.DefBuckets,
		}, []string{"key"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.statusChangesTotal, m.persistenceTotal, m.persistenceLatency)
	return m
}

func (m *ClinicMetrics) ObserveBooking(flow, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(flow, outcome).Inc()
}

func (m *ClinicMetrics) ObserveStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChangesTotal.WithLabelValues(status).Inc()
}

func (m *ClinicMetrics) ObserveSave(key string, err error, seconds float64) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.persistenceTotal.WithLabelValues(key, result).Inc()
	m.persistenceLatency.WithLabelValues(key).Observe(seconds)
}
