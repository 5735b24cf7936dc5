package metrics

import "github.com/prometheus/client_golang/prometheus"

var HttpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests received",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"endpoint", "method"},
)

var HttpErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_errors_total",
		Help: "Total number of failed HTTP requests (4xx/5xx)",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRateLimitRejectionsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "http_rate_limit_rejections_total",
		Help: "Total number of HTTP requests rejected due to rate limiting",
	},
)

var DeliveriesAttemptedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_deliveries_attempted_total",
		Help: "Total number of per-channel delivery attempts",
	},
	[]string{"channel", "status", "provider"},
)

var DeliverySendDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "notification_send_duration_seconds",
		Help:    "Time taken by channel senders to deliver a notification",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider", "channel"},
)

var DeliveriesSuppressedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "notification_deliveries_suppressed_total",
		Help: "Total number of deliveries suppressed by quiet hours",
	},
)

var DeliveryRetriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_retries_total",
		Help: "Total number of notifications re-queued after a failed delivery",
	},
	[]string{"type"},
)

var NotificationsTerminalTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_terminal_total",
		Help: "Notifications that reached a terminal status",
	},
	[]string{"status"},
)

var SchedulerTickDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "scheduler_tick_duration_seconds",
		Help:    "Duration of one scheduler tick",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"tick"},
)

var SchedulerTicksSkippedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "scheduler_ticks_skipped_total",
		Help: "Ticks skipped because the previous run was still in flight",
	},
	[]string{"tick"},
)

var RemindersExpandedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reminders_expanded_total",
		Help: "One-shot notifications created by recurring-reminder expansion",
	},
	[]string{"type"},
)

var KafkaPublishSuccessTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_publish_success_total",
		Help: "Total number of successful Kafka publishes",
	},
	[]string{"topic"},
)

var KafkaPublishFailureTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_publish_failure_total",
		Help: "Total number of failed Kafka publishes",
	},
	[]string{"topic"},
)

var KafkaSubscriberFailureTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_subscriber_failure_total",
		Help: "Total number of failed Kafka reads",
	},
	[]string{"topic"},
)

var KafkaConsumerLag = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "kafka_consumer_lag",
		Help: "Lag of the Kafka consumer group per topic",
	},
	[]string{"group", "topic"},
)

// InitAPIMetrics registers every collector. The API, scheduler and ingest
// consumer share one process, so registration happens once at startup.
func InitAPIMetrics() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		HttpErrorsTotal,
		HttpRateLimitRejectionsTotal,
		DeliveriesAttemptedTotal,
		DeliverySendDuration,
		DeliveriesSuppressedTotal,
		DeliveryRetriesTotal,
		NotificationsTerminalTotal,
		SchedulerTickDuration,
		SchedulerTicksSkippedTotal,
		RemindersExpandedTotal,
		KafkaPublishSuccessTotal,
		KafkaPublishFailureTotal,
		KafkaSubscriberFailureTotal,
		KafkaConsumerLag,
	)
}
