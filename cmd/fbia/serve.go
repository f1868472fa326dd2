package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/app"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/config"
	server "github.com/DallasMorningNews/fb-instant-article-insights/internal/http"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/metrics"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var port string

func init() {
	serveCmd.Flags().StringVar(&port, "port", "", "Port to listen on (defaults to PORT)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the registry, metrics and an on-demand sync endpoint over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		startTime := time.Now()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if port != "" {
			cfg.Port = port
		}

		a, err := app.New(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		s := server.NewServer(a.Registry, a, metrics.NewMetricsHandler(a.Gatherer))
		log.Info("Startup time recorded", "duration_ms", time.Since(startTime).Milliseconds())

		// --- Graceful shutdown setup ---
		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: s,
		}

		// Channel to listen for errors coming from the server
		serverErrors := make(chan error, 1)
		go func() {
			log.Info("Server started", "port", cfg.Port)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Block until we receive a signal or an error
		select {
		case err := <-serverErrors:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case sig := <-shutdown:
			log.Info("Shutdown signal received", "signal", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Server shutdown failed", "error", err)
			} else {
				log.Info("Server gracefully stopped")
			}
		}

		log.Info("Server process shutting down")
		return nil
	},
}
