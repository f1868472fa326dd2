package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// Missing required variables are reported together, wrapped in ErrConfiguration.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	var missing, invalid []string

	// A helper function to get a required env var. Missing keys are collected and reported at the end.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	getEnvOrDefault := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}
	getInt := func(key string, fallback int) int {
		raw := getEnvOrDefault(key, "")
		if raw == "" {
			return fallback
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			invalid = append(invalid, key)
			return fallback
		}
		return n
	}
	getFloat := func(key string, fallback float64) float64 {
		raw := getEnvOrDefault(key, "")
		if raw == "" {
			return fallback
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			invalid = append(invalid, key)
			return fallback
		}
		return f
	}
	getDuration := func(key string, fallback time.Duration) time.Duration {
		raw := getEnvOrDefault(key, "")
		if raw == "" {
			return fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			invalid = append(invalid, key)
			return fallback
		}
		return d
	}

	cfg := Config{
		DBName:  getEnvOrDefault("DB_NAME", "fbia.sqlite"),
		Port:    getEnvOrDefault("PORT", "8080"),
		FeedURL: getEnv("FEED_URL"),
		Facebook: FacebookConfig{
			PageID:            getEnv("FB_PAGE_ID"),
			ClientID:          getEnvOrDefault("FB_CLIENT_ID", ""),
			ClientSecret:      getEnvOrDefault("FB_CLIENT_SECRET", ""),
			UserToken:         getEnvOrDefault("FB_USER_TOKEN", ""),
			GraphURL:          getEnvOrDefault("FB_GRAPH_URL", "https://graph.facebook.com"),
			APIVersion:        getEnvOrDefault("FB_API_VERSION", "v2.6"),
			RequestsPerSecond: getFloat("FB_REQUESTS_PER_SECOND", 5),
		},
		Fetch: FetchConfig{
			Concurrency: getInt("FETCH_CONCURRENCY", 1),
			Timeout:     getDuration("FETCH_TIMEOUT", 30*time.Second),
		},
		Slack: SlackConfig{
			Token:     getEnvOrDefault("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvOrDefault("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvOrDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOrDefault("TURSO_AUTH_TOKEN", ""),
		},
		PubSub: PubSubConfig{
			ProjectID: getEnvOrDefault("GCP_PROJECT", ""),
			Topic:     getEnvOrDefault("PUBSUB_TOPIC", "fbia-snapshot"),
		},
		Pushgateway: getEnvOrDefault("PUSHGATEWAY_URL", ""),
	}

	if len(missing) > 0 {
		return cfg, fmt.Errorf("%w: required environment variables not set: %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return cfg, fmt.Errorf("%w: invalid values for: %s", ErrConfiguration, strings.Join(invalid, ", "))
	}
	return cfg, nil
}
