package export

import (
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
)

// Snapshot is the export published as an event after a run.
type Snapshot struct {
	RunID       string     `msgpack:"run_id"`
	GeneratedAt time.Time  `msgpack:"generated_at"`
	Header      []string   `msgpack:"header"`
	Rows        [][]string `msgpack:"rows"`
}

// NewSnapshot builds a Snapshot of records for runID.
func NewSnapshot(runID string, generatedAt time.Time, records []article.Record) Snapshot {
	return Snapshot{
		RunID:       runID,
		GeneratedAt: generatedAt.UTC(),
		Header:      Header,
		Rows:        Rows(records),
	}
}
