package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SyncRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbia_sync_runs_total",
			Help: "The total number of insights sync runs started.",
		}),
		SyncFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbia_sync_failures_total",
			Help: "The total number of sync runs that ended with a fatal error.",
		}),
		ArticlesSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbia_articles_seen_total",
			Help: "The total number of feed entries seen across runs.",
		}),
		ArticlesUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbia_articles_updated_total",
			Help: "The total number of articles whose metrics were updated.",
		}),
		ArticlesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbia_articles_skipped_total",
			Help: "The total number of feed entries skipped as invalid or duplicate.",
		}),
		ArticlesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbia_articles_failed_total",
			Help: "The total number of articles whose metrics could not be fetched or stored.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fbia_article_fetch_duration_seconds",
			Help:    "The duration of fetching all insights for one article.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbia_slack_reports_sent_total",
			Help: "The total number of Slack reports successfully uploaded.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fbia_slack_reports_failed_total",
			Help: "The total number of Slack reports that failed to upload.",
		}),
		RunDurationSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fbia_sync_run_duration_seconds",
			Help: "The duration of the last sync run in seconds.",
		}),
		LastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fbia_sync_last_success_timestamp_seconds",
			Help: "Unix time of the last sync run that completed without a fatal error.",
		}),
	}

	reg.MustRegister(
		s.SyncRuns,
		s.SyncFailures,
		s.ArticlesSeen,
		s.ArticlesUpdated,
		s.ArticlesSkipped,
		s.ArticlesFailed,
		s.FetchDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.RunDurationSeconds,
		s.LastSuccessTime,
	)

	return s
}

func (s *Service) IncSyncRuns() {
	s.SyncRuns.Inc()
}

func (s *Service) IncSyncFailures() {
	s.SyncFailures.Inc()
}

func (s *Service) AddArticlesSeen(n int) {
	s.ArticlesSeen.Add(float64(n))
}

func (s *Service) IncArticlesUpdated() {
	s.ArticlesUpdated.Inc()
}

func (s *Service) IncArticlesSkipped() {
	s.ArticlesSkipped.Inc()
}

func (s *Service) IncArticlesFailed() {
	s.ArticlesFailed.Inc()
}

func (s *Service) ObserveFetchDuration(seconds float64) {
	s.FetchDuration.Observe(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetRunDuration(seconds float64) {
	s.RunDurationSeconds.Set(seconds)
}

func (s *Service) SetLastSuccess(unixSeconds float64) {
	s.LastSuccessTime.Set(unixSeconds)
}
