package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travel"

type Metrics struct {
	gdsRequests       *prometheus.CounterVec
	gdsDuration       *prometheus.HistogramVec
	bookingTransition *prometheus.CounterVec
	offersClassified  prometheus.Counter
	cacheLookups      *prometheus.CounterVec
}

// New registers every collector on reg. Pass prometheus.DefaultRegisterer in
// main and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gdsRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gds_requests_total",
			Help:      "GDS calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		gdsDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gds_request_duration_seconds",
			Help:      "GDS call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		bookingTransition: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking attempt state transitions by target state.",
		}, []string{"state"}),
		offersClassified: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_classified_total",
			Help:      "Offers run through classification.",
		}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_lookups_total",
			Help:      "Search cache lookups by result.",
		}, []string{"result"}),
	}
}

// Methods are nil-safe so components can run without metrics wired.

func (m *Metrics) ObserveGDS(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.gdsRequests.WithLabelValues(operation, outcome).Inc()
	m.gdsDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) BookingTransition(state string) {
	if m == nil {
		return
	}
	m.bookingTransition.WithLabelValues(state).Inc()
}

func (m *Metrics) OffersClassified(n int) {
	if m == nil {
		return
	}
	m.offersClassified.Add(float64(n))
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
