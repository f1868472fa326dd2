package article

import (
	"context"
	"time"
)

// Registry stores every article ever seen in the feed together with its latest metrics.
type Registry interface {
	ResolveID(canonicalURL string) (string, error)
	Upsert(ctx context.Context, id string, meta Metadata, metrics Metrics, ts time.Time) error
	Get(ctx context.Context, id string) (*Record, error)
	GetAll(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int, error)
}
