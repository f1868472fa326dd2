package http

import (
	"net/http"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
)

func NewServer(registry article.Registry, syncer Syncer, metricsHandler http.Handler) *Server {
	server := &Server{
		Registry:       registry,
		Syncer:         syncer,
		MetricsHandler: metricsHandler,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/articles", Chain(s.ListArticlesHandler(), paramsMiddleware))
	s.Router.Handle("/articles/{id}", Chain(s.GetArticleHandler(), paramsMiddleware))
	s.Router.Handle("/export.csv", Chain(s.ExportHandler(), paramsMiddleware))
	s.Router.Handle("/sync", Chain(s.SyncHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
