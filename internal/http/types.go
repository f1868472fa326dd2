package http

import (
	"context"
	"net/http"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/app"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
)

// Syncer runs one sync on demand.
type Syncer interface {
	Sync(ctx context.Context, opts app.SyncOptions) (*app.SyncResult, error)
}

type Server struct {
	Registry       article.Registry
	Syncer         Syncer
	MetricsHandler http.Handler
	Router         *http.ServeMux
}
