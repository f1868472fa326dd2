package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/config"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/credential"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/database"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/feed"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/graph"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/metrics"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/notifier"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/notifier/slack"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/pubsub"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/reconciler"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

// App wires the stores, clients and reconciler for one process.
type App struct {
	Cfg        config.Config
	DB         *sql.DB
	Registry   article.Registry
	Creds      credential.Store
	Reconciler *reconciler.Reconciler
	Notifier   notifier.Notifier
	PubSub     pubsub.PubSubClient
	Metrics    *metrics.Service
	Gatherer   prometheus.Gatherer

	teardown func()
}

// New opens the database and builds every component cfg enables.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)

	graphClient := graph.NewClient(graph.Options{
		BaseURL:           cfg.Facebook.GraphURL,
		Version:           cfg.Facebook.APIVersion,
		ClientID:          cfg.Facebook.ClientID,
		ClientSecret:      cfg.Facebook.ClientSecret,
		RequestsPerSecond: cfg.Facebook.RequestsPerSecond,
		Timeout:           cfg.Fetch.Timeout,
	})
	registry := article.New(db)
	creds := credential.New(db, graphClient, cfg.Facebook.PageID)
	reader := feed.NewReader(cfg.FeedURL, &http.Client{Timeout: cfg.Fetch.Timeout})

	a := &App{
		Cfg:      cfg,
		DB:       db,
		Registry: registry,
		Creds:    creds,
		Reconciler: reconciler.New(creds, registry, reader, graphClient, metricsSvc, reconciler.Options{
			UserToken:    cfg.Facebook.UserToken,
			Concurrency:  cfg.Fetch.Concurrency,
			FetchTimeout: cfg.Fetch.Timeout,
		}),
		Metrics:  metricsSvc,
		Gatherer: reg,
		teardown: dbTeardown,
	}

	if cfg.SlackEnabled() {
		a.Notifier = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Info("Slack is not configured, reports will not be uploaded")
	}

	if cfg.PubSubEnabled() {
		client, err := pubsub.New(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.PubSub = client
	}

	return a, nil
}

// Close releases the Pub/Sub client and the database.
func (a *App) Close() {
	if a.PubSub != nil {
		if err := a.PubSub.Close(); err != nil {
			log.Warn("Failed to close pubsub client", "error", err)
		}
	}
	if a.teardown != nil {
		log.Info("Closing database connection")
		a.teardown()
	}
}
