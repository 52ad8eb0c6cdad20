// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "charge_tracker"

var (
	// EventsHandled counts real-time events by name and outcome (ok, error).
	EventsHandled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_handled_total",
			Help:      "Real-time events handled, by event and outcome",
		},
		[]string{"event", "outcome"},
	)

	// DomainEventsDispatched counts domain events handed to the dispatcher.
	DomainEventsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_dispatched_total",
			Help:      "Domain events dispatched after commit, by event and outcome",
		},
		[]string{"event", "outcome"},
	)

	WebsocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Currently connected websocket clients",
		},
	)

	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Emails sent, by template and outcome",
		},
		[]string{"template", "outcome"},
	)

	NotificationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Notifications created, by type",
		},
		[]string{"type"},
	)

	CronJobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cron_job_runs_total",
			Help:      "Total number of cron job runs",
		},
		[]string{"job_name", "outcome"},
	)

	CronJobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cron_job_run_duration_seconds",
			Help:      "Duration of cron job runs",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job_name"},
	)
)

// Registry is the registry served on /metrics.
var Registry = newRegistry()

func newRegistry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		EventsHandled,
		DomainEventsDispatched,
		WebsocketClients,
		EmailsSent,
		NotificationsCreated,
		CronJobRuns,
		CronJobDuration,
	)
	return r
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Outcome maps an error to the outcome label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveCronJob records one run of a scheduled job.
func ObserveCronJob(name string, started time.Time, err error) {
	CronJobRuns.WithLabelValues(name, Outcome(err)).Inc()
	CronJobDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
}
