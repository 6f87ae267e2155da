package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	linksIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reserve",
			Name:      "links_issued_total",
			Help:      "Count of reservation links issued.",
		},
	)

	bookingAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reserve",
			Name:      "booking_attempts_total",
			Help:      "Count of booking attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(linksIssued, bookingAttempts)
	})
}

func IncLinkIssued() {
	linksIssued.Inc()
}

func IncBookingAttempt(outcome string) {
	bookingAttempts.WithLabelValues(outcome).Inc()
}
