package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FEED_URL", "https://example.com/fbia.rss")
	t.Setenv("FB_PAGE_ID", "dallasmorningnews")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fbia.sqlite", cfg.DBName)
	assert.Equal(t, "https://example.com/fbia.rss", cfg.FeedURL)
	assert.Equal(t, "dallasmorningnews", cfg.Facebook.PageID)
	assert.Equal(t, "https://graph.facebook.com", cfg.Facebook.GraphURL)
	assert.Equal(t, "v2.6", cfg.Facebook.APIVersion)
	assert.Equal(t, 1, cfg.Fetch.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "fbia-snapshot", cfg.PubSub.Topic)
	assert.False(t, cfg.SlackEnabled())
	assert.False(t, cfg.PubSubEnabled())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("FEED_URL", "")
	t.Setenv("FB_PAGE_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "FEED_URL")
	assert.Contains(t, err.Error(), "FB_PAGE_ID")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("FEED_URL", "https://example.com/fbia.rss")
	t.Setenv("FB_PAGE_ID", "page")
	t.Setenv("FETCH_CONCURRENCY", "zero")
	t.Setenv("FETCH_TIMEOUT", "-1s")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "FETCH_CONCURRENCY")
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FEED_URL", "https://example.com/fbia.rss")
	t.Setenv("FB_PAGE_ID", "page")
	t.Setenv("FETCH_CONCURRENCY", "4")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_CHANNEL_ID", "C0KF7RARL")
	t.Setenv("GCP_PROJECT", "newsroom")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Fetch.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.SlackEnabled())
	assert.True(t, cfg.PubSubEnabled())
}
