package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	bookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bookings_total", Help: "Order booking attempts by outcome"},
		[]string{"outcome"},
	)
	paymentIntentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "payment_intents_total", Help: "Payment intent requests by outcome"},
		[]string{"outcome"},
	)
	authRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_rejections_total", Help: "Requests rejected by an authorization gate"},
		[]string{"gate", "reason"},
	)
)

func init() {
	prometheus.MustRegister(bookingsTotal, paymentIntentsTotal, authRejectionsTotal)
}

// Outcome labels shared by the domain counters.
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
	OutcomeUpstream  = "upstream_error"
)

func Booking(outcome string) { bookingsTotal.WithLabelValues(outcome).Inc() }

func PaymentIntent(outcome string) { paymentIntentsTotal.WithLabelValues(outcome).Inc() }

func AuthRejected(gate, reason string) { authRejectionsTotal.WithLabelValues(gate, reason).Inc() }
