package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/app"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/database"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/metrics"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/reconciler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSyncer struct {
	syncFunc func(ctx context.Context, opts app.SyncOptions) (*app.SyncResult, error)
	calls    []app.SyncOptions
}

func (m *mockSyncer) Sync(ctx context.Context, opts app.SyncOptions) (*app.SyncResult, error) {
	m.calls = append(m.calls, opts)
	if m.syncFunc != nil {
		return m.syncFunc(ctx, opts)
	}
	return &app.SyncResult{Summary: &reconciler.Summary{RunID: "run-1", Seen: 2, Updated: 2}, Records: 2}, nil
}

// setupTestServer initializes a new server with a test database and a mock syncer.
func setupTestServer(t *testing.T) (*Server, *mockSyncer) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	reg := prometheus.NewRegistry()
	metrics.NewService(reg)
	syncer := &mockSyncer{}
	return NewServer(article.New(db), syncer, metrics.NewMetricsHandler(reg)), syncer
}

func seedArticle(t *testing.T, registry article.Registry, url string, views int64) {
	t.Helper()
	id, err := registry.ResolveID(url)
	require.NoError(t, err)
	ts := time.Date(2016, 5, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, registry.Upsert(context.Background(), id, article.Metadata{URL: url, Title: "Story"}, article.Metrics{Views: views}, ts))
}

func serve(server *Server, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestHealthCheckHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := serve(server, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestListArticlesHandler(t *testing.T) {
	server, _ := setupTestServer(t)
	seedArticle(t, server.Registry, "https://www.dallasnews.com/a", 42)

	rr := serve(server, http.MethodGet, "/articles")
	require.Equal(t, http.StatusOK, rr.Code)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "https://www.dallasnews.com/a", records[0]["url"])
	assert.Equal(t, 42.0, records[0]["views"])
}

func TestGetArticleHandler(t *testing.T) {
	server, _ := setupTestServer(t)
	seedArticle(t, server.Registry, "https://www.dallasnews.com/a", 42)
	id, err := server.Registry.ResolveID("https://www.dallasnews.com/a")
	require.NoError(t, err)

	rr := serve(server, http.MethodGet, "/articles/"+id)
	require.Equal(t, http.StatusOK, rr.Code)

	var record map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &record))
	assert.Equal(t, id, record["id"])
	assert.Equal(t, 42.0, record["views"])

	rr = serve(server, http.MethodGet, "/articles/00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExportHandler(t *testing.T) {
	server, _ := setupTestServer(t)
	seedArticle(t, server.Registry, "https://www.dallasnews.com/a", 42)

	rr := serve(server, http.MethodGet, "/export.csv")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "ID,URL,Headline,Total views")
	assert.Contains(t, rr.Body.String(), "https://www.dallasnews.com/a,Story,42")
}

func TestSyncHandler(t *testing.T) {
	server, syncer := setupTestServer(t)

	rr := serve(server, http.MethodPost, "/sync?dry_run=true&notify=false")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, syncer.calls, 1)
	assert.True(t, syncer.calls[0].DryRun)
	assert.False(t, syncer.calls[0].Notify)
	assert.Contains(t, rr.Body.String(), `"run_id":"run-1"`)
}

func TestSyncHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"run in progress", reconciler.ErrRunInProgress, http.StatusConflict},
		{"credential rejected", reconciler.ErrAuthentication, http.StatusUnauthorized},
		{"other", context.DeadlineExceeded, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, syncer := setupTestServer(t)
			syncer.syncFunc = func(ctx context.Context, opts app.SyncOptions) (*app.SyncResult, error) {
				return nil, tt.err
			}

			rr := serve(server, http.MethodPost, "/sync")
			assert.Equal(t, tt.status, rr.Code)
			assert.Contains(t, rr.Body.String(), "error")
		})
	}
}

func TestSyncHandler_MethodNotAllowed(t *testing.T) {
	server, syncer := setupTestServer(t)

	rr := serve(server, http.MethodDelete, "/sync")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Empty(t, syncer.calls)
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := serve(server, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "fbia_sync_runs_total")
}
