// Package metrics exposes booking engine counters to Prometheus.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "autoshop"

type Metrics struct {
	bookingsCreated   prometheus.Counter
	bookingRejected   *prometheus.CounterVec
	bookingDuration   prometheus.Histogram
	statusTransitions *prometheus.CounterVec
	holidaySyncRuns   *prometheus.CounterVec
	holidaysUpserted  prometheus.Counter
	cacheLookups      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Appointments created.",
		}),
		bookingRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rejected_total",
			Help:      "Booking attempts rejected, by error code.",
		}, []string{"code"}),
		bookingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_duration_seconds",
			Help:      "Time spent in the booking transaction.",
			Buckets:   prometheus.DefBuckets,
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Appointment status transitions, by target status.",
		}, []string{"to"}),
		holidaySyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holiday_sync_runs_total",
			Help:      "Holiday feed sync runs, by result.",
		}, []string{"result"}),
		holidaysUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holidays_upserted_total",
			Help:      "Holiday rows written by the feed sync.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups, by cache and result.",
		}, []string{"cache", "result"}),
	}

	reg.MustRegister(
		m.bookingsCreated,
		m.bookingRejected,
		m.bookingDuration,
		m.statusTransitions,
		m.holidaySyncRuns,
		m.holidaysUpserted,
		m.cacheLookups,
	)
	return m
}

func (m *Metrics) BookingCreated(took time.Duration) {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
	m.bookingDuration.Observe(took.Seconds())
}

func (m *Metrics) BookingRejected(code string) {
	if m == nil {
		return
	}
	m.bookingRejected.WithLabelValues(code).Inc()
}

func (m *Metrics) Transition(to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) HolidaySync(result string, upserted int64) {
	if m == nil {
		return
	}
	m.holidaySyncRuns.WithLabelValues(result).Inc()
	m.holidaysUpserted.Add(float64(upserted))
}

func (m *Metrics) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}
