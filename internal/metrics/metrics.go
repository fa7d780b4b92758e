package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Inbound updates handled, by kind.",
	}, []string{"kind"})

	HandlerFaults = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_handler_faults_total",
		Help: "Handlers that ended with an unexpected error.",
	})

	DepositDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deposit_decisions_total",
		Help: "Deposits decided by the admin, by terminal status.",
	}, []string{"status"})

	CardsSold = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cards_sold_total",
		Help: "Gift cards sold through purchases.",
	})

	NotificationsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Outbound notifications delivered.",
	})

	NotificationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Outbound notifications that failed to deliver.",
	})

	NotificationsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_dropped_total",
		Help: "Notifications dropped because the queue was full.",
	})

	NotifyQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "notify_queue_depth",
		Help: "Notifications waiting in the delivery queue.",
	})
)

func Init() {
	prometheus.MustRegister(
		UpdatesTotal,
		HandlerFaults,
		DepositDecisions,
		CardsSold,
		NotificationsSent,
		NotificationFailures,
		NotificationsDropped,
		NotifyQueueDepth,
	)
}

// Handler serves the metrics endpoint.
var Handler http.Handler = promhttp.Handler()
