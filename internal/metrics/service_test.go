package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncSyncRuns()
	s.AddArticlesSeen(5)
	s.IncArticlesUpdated()
	s.IncArticlesUpdated()
	s.IncArticlesSkipped()
	s.IncArticlesFailed()
	s.ObserveFetchDuration(0.3)
	s.SetLastSuccess(1462176000)

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := rec.Body.String()

	assert.Contains(t, out, "fbia_sync_runs_total 1")
	assert.Contains(t, out, "fbia_articles_seen_total 5")
	assert.Contains(t, out, "fbia_articles_updated_total 2")
	assert.Contains(t, out, "fbia_articles_skipped_total 1")
	assert.Contains(t, out, "fbia_articles_failed_total 1")
	assert.Contains(t, out, "fbia_article_fetch_duration_seconds_count 1")
	assert.Contains(t, out, "fbia_sync_last_success_timestamp_seconds 1.462176e+09")
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncSyncRuns()

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fbia_sync_runs_total 1")
}

func TestPush(t *testing.T) {
	var body string
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncSyncRuns()

	require.NoError(t, Push(context.Background(), server.URL, "fbia_sync", reg))
	assert.True(t, strings.HasSuffix(path, "/metrics/job/fbia_sync"), path)
	assert.NotEmpty(t, body)
}

func TestPush_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	err := Push(context.Background(), server.URL, "fbia_sync", prometheus.NewRegistry())
	assert.Error(t, err)
}
