package metrics

// Metrics defines the interface for collecting sync metrics.
type Metrics interface {
	IncSyncRuns()
	IncSyncFailures()
	AddArticlesSeen(n int)
	IncArticlesUpdated()
	IncArticlesSkipped()
	IncArticlesFailed()
	ObserveFetchDuration(seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetRunDuration(seconds float64)
	SetLastSuccess(unixSeconds float64)
}
