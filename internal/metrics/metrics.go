package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of leads persisted",
		},
		[]string{"quality", "affiliate"},
	)

	submissionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_rejected_total",
			Help: "Total number of rejected form submissions",
		},
		[]string{"endpoint", "reason"},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notification attempts",
		},
		[]string{"channel", "outcome"},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_events_published_total",
			Help: "Total number of lead events published to the broker",
		},
		[]string{"outcome"},
	)

	recordsPurged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retention_records_purged_total",
			Help: "Total number of records deleted after their retention window",
		},
		[]string{"table"},
	)
)

func RecordLead(quality, affiliate string) {
	leadsCaptured.WithLabelValues(quality, affiliate).Inc()
}

func RecordRejection(endpoint, reason string) {
	submissionsRejected.WithLabelValues(endpoint, reason).Inc()
}

func RecordNotification(channel string, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	notificationsSent.WithLabelValues(channel, outcome).Inc()
}

func RecordEventPublished(err error) {
	outcome := "published"
	if err != nil {
		outcome = "failed"
	}
	eventsPublished.WithLabelValues(outcome).Inc()
}

func RecordPurged(table string, n int64) {
	if n <= 0 {
		return
	}
	recordsPurged.WithLabelValues(table).Add(float64(n))
}
