package app

import (
	"context"
	"errors"
	"testing"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/config"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/credential"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/export"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/feed"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/graph"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/metrics"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/notifier"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/pubsub"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/reconciler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	*App
	creds    *credential.MockStore
	registry *article.MockRegistry
	insights *graph.Mock
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
}

func newTestApp(t *testing.T, urls ...string) *testApp {
	t.Helper()

	entries := make([]feed.Entry, len(urls))
	for i, u := range urls {
		entries[i] = feed.Entry{URL: u, Title: u}
	}

	ta := &testApp{
		creds:    credential.NewMock(&credential.Credential{Kind: credential.KindPage, Token: "page-token"}),
		registry: article.NewMock(),
		insights: graph.NewMock(),
		notifier: notifier.NewMock(),
		pubsub:   pubsub.NewMock(),
	}
	ta.App = &App{
		Cfg:        config.Config{PubSub: config.PubSubConfig{ProjectID: "newsroom", Topic: "fbia-snapshot"}},
		Registry:   ta.registry,
		Creds:      ta.creds,
		Reconciler: reconciler.New(ta.creds, ta.registry, feed.NewMock(entries...), ta.insights, metrics.NewMock(), reconciler.Options{}),
		Notifier:   ta.notifier,
		PubSub:     ta.pubsub,
	}
	return ta
}

func TestSync_DeliversReportAndSnapshot(t *testing.T) {
	a := newTestApp(t, "https://www.dallasnews.com/a", "https://www.dallasnews.com/b")

	result, err := a.Sync(context.Background(), SyncOptions{Notify: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Records)
	assert.Equal(t, 2, result.Summary.Updated)
	assert.Contains(t, string(result.CSV), "https://www.dallasnews.com/a")

	require.Len(t, a.notifier.SendReportCalls, 1)
	report := a.notifier.SendReportCalls[0].Report
	assert.Equal(t, "fbia.csv", report.Filename)
	assert.Equal(t, result.CSV, report.CSV)
	assert.Equal(t, 2, report.Seen)
	assert.False(t, a.notifier.SendReportCalls[0].DryRun)

	require.Len(t, a.pubsub.SendMessageCalls, 1)
	call := a.pubsub.SendMessageCalls[0]
	assert.Equal(t, "fbia-snapshot", call.Topic)
	assert.Equal(t, pubsub.EventSnapshotExported, call.Event)
	snapshot, ok := call.Data.(export.Snapshot)
	require.True(t, ok)
	assert.Equal(t, result.Summary.RunID, snapshot.RunID)
	assert.Len(t, snapshot.Rows, 2)
}

func TestSync_NoNotify(t *testing.T) {
	a := newTestApp(t, "https://www.dallasnews.com/a")

	_, err := a.Sync(context.Background(), SyncOptions{Notify: false})
	require.NoError(t, err)
	assert.Empty(t, a.notifier.SendReportCalls)
}

func TestSync_DryRun(t *testing.T) {
	a := newTestApp(t, "https://www.dallasnews.com/a")

	result, err := a.Sync(context.Background(), SyncOptions{DryRun: true, Notify: true})
	require.NoError(t, err)
	assert.True(t, result.Summary.DryRun)
	assert.Empty(t, a.registry.UpsertCalls)
	require.Len(t, a.notifier.SendReportCalls, 1)
	assert.True(t, a.notifier.SendReportCalls[0].DryRun)
	assert.Empty(t, a.pubsub.SendMessageCalls)
}

func TestSync_DeliveryFailureDoesNotFailTheRun(t *testing.T) {
	a := newTestApp(t, "https://www.dallasnews.com/a")
	a.notifier.SendReportFunc = func(ctx context.Context, report notifier.Report, dryRun bool) error {
		return errors.New("slack is down")
	}
	a.pubsub.SendMessageFunc = func(ctx context.Context, topic string, event pubsub.EventType, data any) error {
		return errors.New("pubsub is down")
	}

	result, err := a.Sync(context.Background(), SyncOptions{Notify: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Records)
}

func TestSync_AuthenticationFailureSkipsDelivery(t *testing.T) {
	a := newTestApp(t, "https://www.dallasnews.com/a")
	a.insights.InsightsFunc = func(ctx context.Context, token, u string, metric graph.Metric) (*graph.Series, error) {
		return nil, &graph.APIError{StatusCode: 400, Code: 190}
	}

	result, err := a.Sync(context.Background(), SyncOptions{Notify: true})
	assert.ErrorIs(t, err, reconciler.ErrAuthentication)
	require.NotNil(t, result)
	assert.Equal(t, 1, a.creds.InvalidateCalled)
	assert.Empty(t, a.notifier.SendReportCalls)
	assert.Empty(t, a.pubsub.SendMessageCalls)
}
