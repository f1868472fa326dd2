package reconciler

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/credential"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/feed"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/graph"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/metrics"
)

var (
	// ErrAuthentication means the stored page credential was rejected mid-run.
	// The credential has been invalidated and the next run must bootstrap again.
	ErrAuthentication = errors.New("page credential rejected")
	// ErrRunInProgress means another Run on the same Reconciler has not finished.
	ErrRunInProgress = errors.New("a sync run is already in progress")
)

// FetchError records why metrics for one article could not be refreshed.
type FetchError struct {
	ArticleID string
	URL       string
	Err       error
}

func (e FetchError) Error() string {
	return fmt.Sprintf("fetch metrics for %s: %v", e.URL, e.Err)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

func (e FetchError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ArticleID string `json:"article_id"`
		URL       string `json:"url"`
		Error     string `json:"error"`
	}{e.ArticleID, e.URL, e.Err.Error()})
}

// Options tunes a Reconciler.
type Options struct {
	// UserToken bootstraps the page credential when none is stored.
	UserToken string
	// Concurrency is the number of articles fetched at once. Values below 1 mean 1.
	Concurrency int
	// FetchTimeout bounds all provider calls for one article. Zero means no bound.
	FetchTimeout time.Duration
}

// Summary is the outcome of one run.
type Summary struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Seen      int           `json:"seen"`
	Updated   int           `json:"updated"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Failures  []FetchError  `json:"failures,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	DryRun    bool          `json:"dry_run"`
}

// Reconciler refreshes the registry from the feed and the insights provider.
type Reconciler struct {
	creds    credential.Store
	registry article.Registry
	feed     feed.Reader
	insights graph.InsightsClient
	metrics  metrics.Metrics
	opts     Options
	now      func() time.Time
	mu       sync.Mutex
}

// job is one resolved feed entry to fetch.
type job struct {
	id    string
	entry feed.Entry
}
