package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/app"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/config"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/credential"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/export"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/reconciler"
	"github.com/charmbracelet/log"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListArticlesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.Registry.GetAll(r.Context())
		if err != nil {
			http.Error(w, "Failed to get articles", http.StatusInternalServerError)
			log.Error("Failed to get articles from registry", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

// GetArticleHandler returns one registry record by article id.
func (s *Server) GetArticleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		record, err := s.Registry.Get(r.Context(), id)
		if errors.Is(err, article.ErrNotFound) {
			http.Error(w, "Article not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to get article", http.StatusInternalServerError)
			log.Error("Failed to get article from registry", "id", id, "error", err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func (s *Server) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.Registry.GetAll(r.Context())
		if err != nil {
			http.Error(w, "Failed to get articles", http.StatusInternalServerError)
			log.Error("Failed to get articles from registry", "error", err)
			return
		}
		csv, err := export.CSV(records)
		if err != nil {
			http.Error(w, "Failed to export articles", http.StatusInternalServerError)
			log.Error("Failed to export articles", "error", err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="fbia.csv"`)
		w.Write(csv)
	}
}

// SyncHandler runs one sync in the request. Overlapping requests get 409.
func (s *Server) SyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		isDryRun := isDryRunFromContext(r)
		notify := r.URL.Query().Get("notify") != "false"
		log.Info("Starting sync from HTTP request", "dry_run", isDryRun, "notify", notify)

		result, err := s.Syncer.Sync(r.Context(), app.SyncOptions{DryRun: isDryRun, Notify: notify})
		if err != nil {
			status := syncErrorStatus(err)
			log.Error("Sync request failed", "error", err, "status", status)
			body := map[string]any{"error": err.Error()}
			if result != nil && result.Summary != nil {
				body["summary"] = result.Summary
			}
			writeJSON(w, status, body)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func syncErrorStatus(err error) int {
	switch {
	case errors.Is(err, reconciler.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, reconciler.ErrAuthentication), errors.Is(err, credential.ErrExchange):
		return http.StatusUnauthorized
	case errors.Is(err, config.ErrConfiguration):
		return http.StatusPreconditionFailed
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}
