package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	SyncRuns           prometheus.Counter
	SyncFailures       prometheus.Counter
	ArticlesSeen       prometheus.Counter
	ArticlesUpdated    prometheus.Counter
	ArticlesSkipped    prometheus.Counter
	ArticlesFailed     prometheus.Counter
	FetchDuration      prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	RunDurationSeconds prometheus.Gauge
	LastSuccessTime    prometheus.Gauge
}
