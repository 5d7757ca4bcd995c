package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beautyhub",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by status.",
		},
		[]string{"status"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "beautyhub",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled by users.",
		},
	)

	submissionFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "beautyhub",
			Name:      "booking_submission_failed_total",
			Help:      "Count of booking submissions rejected by the registry.",
		},
	)

	wizardTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beautyhub",
			Name:      "wizard_transition_total",
			Help:      "Count of booking wizard step transitions.",
		},
		[]string{"to"},
	)

	orderPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "beautyhub",
			Name:      "order_placed_total",
			Help:      "Count of product checkouts completed.",
		},
	)

	searchCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beautyhub",
			Name:      "search_cache_total",
			Help:      "Vendor search cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingCancelled, submissionFailed,
			wizardTransition, orderPlaced, searchCache)
	})
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncSubmissionFailed() {
	submissionFailed.Inc()
}

func IncWizardTransition(to string) {
	wizardTransition.WithLabelValues(to).Inc()
}

func IncOrderPlaced() {
	orderPlaced.Inc()
}

func IncSearchCache(outcome string) {
	searchCache.WithLabelValues(outcome).Inc()
}
