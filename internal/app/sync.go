package app

import (
	"context"
	"fmt"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/export"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/metrics"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/notifier"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/pubsub"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/reconciler"
	"github.com/charmbracelet/log"
)

const (
	reportFilename = "fbia.csv"
	pushJob        = "fbia_sync"
)

// SyncOptions controls one call to Sync.
type SyncOptions struct {
	DryRun bool
	// Notify uploads the report to Slack when it is configured.
	Notify bool
}

// SyncResult is what a completed Sync produced.
type SyncResult struct {
	Summary *reconciler.Summary `json:"summary"`
	Records int                 `json:"records"`
	CSV     []byte              `json:"-"`
}

// Sync runs the reconciler, exports the registry and delivers the export.
// Only reconciler errors are returned; delivery problems are logged because the
// registry is already up to date by then.
func (a *App) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	defer a.pushMetrics(ctx)

	summary, err := a.Reconciler.Run(ctx, opts.DryRun)
	if err != nil {
		return &SyncResult{Summary: summary}, err
	}

	records, err := a.Registry.GetAll(ctx)
	if err != nil {
		return &SyncResult{Summary: summary}, fmt.Errorf("failed to read registry: %w", err)
	}
	csv, err := export.CSV(records)
	if err != nil {
		return &SyncResult{Summary: summary}, err
	}
	result := &SyncResult{Summary: summary, Records: len(records), CSV: csv}

	if opts.Notify && a.Notifier != nil {
		report := notifier.Report{
			Filename:    reportFilename,
			CSV:         csv,
			GeneratedAt: time.Now(),
			Records:     len(records),
			Seen:        summary.Seen,
			Updated:     summary.Updated,
			Skipped:     summary.Skipped,
			Failed:      summary.Failed,
		}
		if err := a.Notifier.SendReport(ctx, report, opts.DryRun); err != nil {
			log.Error("Failed to deliver report", "run_id", summary.RunID, "error", err)
		}
	}

	if a.PubSub != nil {
		snapshot := export.NewSnapshot(summary.RunID, time.Now(), records)
		if opts.DryRun {
			log.Info("[Dry Run] Would publish snapshot", "topic", a.Cfg.PubSub.Topic, "rows", len(snapshot.Rows))
		} else if err := a.PubSub.SendMessage(ctx, a.Cfg.PubSub.Topic, pubsub.EventSnapshotExported, snapshot); err != nil {
			log.Error("Failed to publish snapshot", "run_id", summary.RunID, "error", err)
		}
	}

	return result, nil
}

func (a *App) pushMetrics(ctx context.Context) {
	if a.Cfg.Pushgateway == "" || a.Gatherer == nil {
		return
	}
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := metrics.Push(pushCtx, a.Cfg.Pushgateway, pushJob, a.Gatherer); err != nil {
		log.Warn("Failed to push metrics", "error", err)
	}
}
