package article

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a Registry backed by db.
func New(db *sql.DB) Registry {
	return &store{
		db: db,
	}
}

func (s *store) ResolveID(canonicalURL string) (string, error) {
	return ResolveID(canonicalURL)
}

// Upsert inserts the article with meta, or, if the id is known, updates only its
// metrics and last-updated time. Metadata and first-seen never change after insert.
func (s *store) Upsert(ctx context.Context, id string, meta Metadata, metrics Metrics, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var published sql.NullInt64
	if meta.PublishedAt != nil {
		published = sql.NullInt64{Int64: meta.PublishedAt.Unix(), Valid: true}
	}
	var scroll sql.NullString
	if len(metrics.ScrollDepth) > 0 {
		scroll = sql.NullString{String: string(metrics.ScrollDepth), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (id, url, guid, title, author, published_at, views, duration, scroll_depth, first_seen, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			views = excluded.views,
			duration = excluded.duration,
			scroll_depth = excluded.scroll_depth,
			last_updated = excluded.last_updated;
	`, id, meta.URL, meta.GUID, meta.Title, meta.Author, published,
		metrics.Views, metrics.AverageViewDuration, scroll, ts.Unix(), ts.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert article %s: %w", id, err)
	}
	log.Debug("Upserted article", "id", id, "views", metrics.Views)
	return nil
}

func (s *store) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectArticles+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	return rec, nil
}

// GetAll returns every record ordered by first-seen, ties broken by id.
func (s *store) GetAll(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectArticles+` ORDER BY first_seen, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (s *store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return n, nil
}

const selectArticles = `SELECT id, url, guid, title, author, published_at, views, duration, scroll_depth, first_seen, last_updated FROM articles`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		rec                   Record
		guid, title, author   sql.NullString
		scroll                sql.NullString
		published             sql.NullInt64
		firstSeen, lastUpdate int64
	)
	err := sc.Scan(&rec.ID, &rec.URL, &guid, &title, &author, &published,
		&rec.Views, &rec.AverageViewDuration, &scroll, &firstSeen, &lastUpdate)
	if err != nil {
		return nil, err
	}
	rec.GUID = guid.String
	rec.Title = title.String
	rec.Author = author.String
	if published.Valid {
		t := time.Unix(published.Int64, 0).UTC()
		rec.PublishedAt = &t
	}
	if scroll.Valid {
		rec.ScrollDepth = []byte(scroll.String)
	}
	rec.FirstSeen = time.Unix(firstSeen, 0).UTC()
	rec.LastUpdated = time.Unix(lastUpdate, 0).UTC()
	return &rec, nil
}
