package config

import (
	"errors"
	"time"
)

// ErrConfiguration marks a missing or invalid required input. It is fatal for a run.
var ErrConfiguration = errors.New("configuration error")

// Config holds all configuration for the application.
type Config struct {
	DBName      string
	Port        string
	FeedURL     string
	Facebook    FacebookConfig
	Fetch       FetchConfig
	Slack       SlackConfig
	Turso       TursoConfig
	PubSub      PubSubConfig
	Pushgateway string
}
type FacebookConfig struct {
	PageID            string
	ClientID          string
	ClientSecret      string
	UserToken         string
	GraphURL          string
	APIVersion        string
	RequestsPerSecond float64
}
type FetchConfig struct {
	Concurrency int
	Timeout     time.Duration
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type PubSubConfig struct {
	ProjectID string
	Topic     string
}

// SlackEnabled reports whether the report upload has everything it needs.
func (c Config) SlackEnabled() bool {
	return c.Slack.Token != "" && c.Slack.ChannelID != ""
}

// PubSubEnabled reports whether snapshot events should be published.
func (c Config) PubSubEnabled() bool {
	return c.PubSub.ProjectID != ""
}
