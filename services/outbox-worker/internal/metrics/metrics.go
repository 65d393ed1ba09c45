package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OutboxSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_sent_total",
		Help: "Outbox events published to the events exchange",
	}, []string{"event_type"})
	OutboxPublishErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_errors_total",
		Help: "Failed outbox publish attempts",
	}, []string{"event_type"})
	OutboxDeadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_dead_total",
		Help: "Outbox events given up on after max attempts",
	}, []string{"event_type"})
	OutboxPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "outbox_pending",
		Help: "Outbox events not yet sent",
	})
)

func init() {
	prometheus.MustRegister(OutboxSentTotal, OutboxPublishErrorsTotal, OutboxDeadTotal, OutboxPending)
}
