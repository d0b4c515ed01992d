package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the booking pipeline.
// Each Metrics owns its registry, exposed on the /metrics endpoint.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	WebhookEvents   *prometheus.CounterVec
	CheckoutsTotal  *prometheus.CounterVec
	RemindersSent   prometheus.Counter
	RemindersFailed prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentandgo_http_requests_total",
			Help: "HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),

		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentandgo_webhook_events_total",
			Help: "Stripe webhook events by type and outcome",
		}, []string{"type", "outcome"}),

		CheckoutsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentandgo_checkouts_total",
			Help: "Checkout session creations by result",
		}, []string{"result"}),

		RemindersSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "rentandgo_reminders_sent_total",
			Help: "Return reminders sent",
		}),

		RemindersFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "rentandgo_reminders_failed_total",
			Help: "Return reminder send failures",
		}),
	}
}
