package article

import (
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

var (
	// ErrInvalidReference means a feed URL cannot be turned into an article id.
	ErrInvalidReference = errors.New("invalid article reference")
	// ErrNotFound means no record exists for the id.
	ErrNotFound = errors.New("article not found")
)

// Metadata is captured the first time an article is seen and never changes afterwards.
type Metadata struct {
	URL         string     `json:"url"`
	GUID        string     `json:"guid,omitempty"`
	Title       string     `json:"title"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Metrics are the insights values refreshed on every successful fetch.
type Metrics struct {
	Views               int64   `json:"views"`
	AverageViewDuration float64 `json:"average_view_duration"`
	// ScrollDepth is the provider's scroll data as returned, or nil.
	ScrollDepth json.RawMessage `json:"scroll_depth,omitempty"`
}

// Record is one tracked article.
type Record struct {
	ID string `json:"id"`
	Metadata
	Metrics
	FirstSeen   time.Time `json:"first_seen"`
	LastUpdated time.Time `json:"last_updated"`
}

type store struct {
	db *sql.DB
	mu sync.RWMutex
}
