package reconciler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/config"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/credential"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/feed"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/graph"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/metrics"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// New creates a new Reconciler.
func New(creds credential.Store, registry article.Registry, reader feed.Reader, insights graph.InsightsClient, metrics metrics.Metrics, opts Options) *Reconciler {
	return &Reconciler{
		creds:    creds,
		registry: registry,
		feed:     reader,
		insights: insights,
		metrics:  metrics,
		opts:     opts,
		now:      time.Now,
	}
}

// Run performs one sync pass: authorize, read the feed, fetch insights for every
// entry and upsert the results. Per-article failures are collected in the Summary.
// A rejected page credential stops the pass, is invalidated, and yields ErrAuthentication.
// The returned Summary is non-nil whenever the run started, even on error.
func (r *Reconciler) Run(ctx context.Context, dryRun bool) (*Summary, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()

	start := time.Now()
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: r.now().UTC().Truncate(time.Second),
		DryRun:    dryRun,
	}
	r.metrics.IncSyncRuns()
	defer func() {
		summary.Duration = time.Since(start)
		r.metrics.SetRunDuration(summary.Duration.Seconds())
	}()

	logger := log.With("run_id", summary.RunID)
	logger.Info("Starting insights sync", "dry_run", dryRun, "concurrency", r.concurrency())

	err := r.run(ctx, logger, summary, dryRun)
	if err != nil {
		r.metrics.IncSyncFailures()
		logger.Error("Insights sync failed", "error", err, "seen", summary.Seen, "updated", summary.Updated, "skipped", summary.Skipped, "failed", summary.Failed)
		return summary, err
	}

	r.metrics.SetLastSuccess(float64(r.now().Unix()))
	logger.Info("Insights sync finished", "seen", summary.Seen, "updated", summary.Updated, "skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

func (r *Reconciler) run(ctx context.Context, logger *log.Logger, summary *Summary, dryRun bool) error {
	cred, err := r.authorize(ctx, logger)
	if err != nil {
		return err
	}

	entries, err := r.feed.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}
	summary.Seen = len(entries)
	r.metrics.AddArticlesSeen(len(entries))

	jobs := r.resolve(logger, entries, summary)

	err = r.fetchAll(ctx, logger, cred.Token, jobs, summary, dryRun)
	if errors.Is(err, graph.ErrUnauthorized) {
		if dryRun {
			logger.Warn("Page credential rejected, keeping it because this is a dry run")
		} else if invErr := r.creds.Invalidate(ctx); invErr != nil {
			logger.Error("Failed to invalidate rejected page credential", "error", invErr)
		}
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return err
}

// authorize loads the stored page credential, bootstrapping one from the user token if absent.
func (r *Reconciler) authorize(ctx context.Context, logger *log.Logger) (*credential.Credential, error) {
	cred, err := r.creds.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cred != nil {
		logger.Debug("Using stored page credential", "page_id", cred.PageID, "updated_at", cred.UpdatedAt)
		return cred, nil
	}
	if r.opts.UserToken == "" {
		return nil, fmt.Errorf("%w: no stored page credential and FB_USER_TOKEN is not set", config.ErrConfiguration)
	}
	logger.Info("No stored page credential, bootstrapping from user token")
	return r.creds.Bootstrap(ctx, r.opts.UserToken)
}

// resolve maps feed entries to article ids in feed order. Invalid and repeated
// references are skipped so each article is fetched at most once per run.
func (r *Reconciler) resolve(logger *log.Logger, entries []feed.Entry, summary *Summary) []job {
	seen := make(map[string]bool, len(entries))
	jobs := make([]job, 0, len(entries))
	for _, entry := range entries {
		id, err := r.registry.ResolveID(entry.URL)
		if err != nil {
			logger.Warn("Skipping feed entry with invalid URL", "guid", entry.GUID, "url", entry.URL, "error", err)
			summary.Skipped++
			r.metrics.IncArticlesSkipped()
			continue
		}
		if seen[id] {
			logger.Debug("Skipping duplicate feed entry", "id", id, "url", entry.URL)
			summary.Skipped++
			r.metrics.IncArticlesSkipped()
			continue
		}
		seen[id] = true
		jobs = append(jobs, job{id: id, entry: entry})
	}
	return jobs
}

// fetchAll fetches and stores each job on a bounded pool. Only a credential
// rejection is returned as an error; it cancels every job not yet started.
func (r *Reconciler) fetchAll(ctx context.Context, logger *log.Logger, token string, jobs []job, summary *Summary, dryRun bool) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency())

	for _, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			fetchStart := time.Now()
			m, err := r.fetch(gctx, token, j.entry.URL)
			r.metrics.ObserveFetchDuration(time.Since(fetchStart).Seconds())
			if errors.Is(err, graph.ErrUnauthorized) {
				logger.Error("Page credential rejected", "id", j.id, "url", j.entry.URL, "error", err)
				return err
			}
			if err == nil && !dryRun {
				err = r.registry.Upsert(gctx, j.id, metadata(j.entry), m, summary.StartedAt)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("Failed to refresh article", "id", j.id, "url", j.entry.URL, "error", err)
				summary.Failed++
				summary.Failures = append(summary.Failures, FetchError{ArticleID: j.id, URL: j.entry.URL, Err: err})
				r.metrics.IncArticlesFailed()
				return nil
			}
			logger.Info("Refreshed article", "id", j.id, "title", j.entry.Title, "views", m.Views, "dry_run", dryRun)
			summary.Updated++
			r.metrics.IncArticlesUpdated()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// fetch queries every insights metric for one article. Views are required;
// missing duration or scroll data is stored as zero or empty.
func (r *Reconciler) fetch(ctx context.Context, token, articleURL string) (article.Metrics, error) {
	if r.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.FetchTimeout)
		defer cancel()
	}

	var m article.Metrics
	views, err := r.insights.Insights(ctx, token, articleURL, graph.MetricViews)
	if err != nil {
		return m, err
	}
	m.Views = int64(math.Round(views.Total()))

	durations, err := r.insights.Insights(ctx, token, articleURL, graph.MetricViewDurations)
	switch {
	case err == nil:
		m.AverageViewDuration = durations.Total()
	case !errors.Is(err, graph.ErrNoData):
		return m, err
	}

	scrolls, err := r.insights.Insights(ctx, token, articleURL, graph.MetricScrolls)
	switch {
	case err == nil:
		m.ScrollDepth = scrolls.Raw
	case !errors.Is(err, graph.ErrNoData):
		return m, err
	}
	return m, nil
}

func (r *Reconciler) concurrency() int {
	return max(1, r.opts.Concurrency)
}

func metadata(entry feed.Entry) article.Metadata {
	return article.Metadata{
		URL:         entry.URL,
		GUID:        entry.GUID,
		Title:       entry.Title,
		Author:      entry.Author,
		PublishedAt: entry.Published,
	}
}
