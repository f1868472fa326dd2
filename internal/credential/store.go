package credential

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/config"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/graph"
	"github.com/charmbracelet/log"
)

// New creates a credential Store for pageID backed by db.
func New(db *sql.DB, exchanger graph.TokenExchanger, pageID string) Store {
	return &store{
		db:        db,
		exchanger: exchanger,
		pageID:    pageID,
		now:       time.Now,
	}
}

func (s *store) Load(ctx context.Context) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		cred             Credential
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT kind, token, page_id, created_at, updated_at FROM credentials WHERE kind = ?`, KindPage,
	).Scan(&cred.Kind, &cred.Token, &cred.PageID, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page credential: %w", err)
	}
	cred.CreatedAt = time.Unix(created, 0).UTC()
	cred.UpdatedAt = time.Unix(updated, 0).UTC()
	return &cred, nil
}

// Bootstrap exchanges userToken for a long-lived user token, reads the page token with
// it and persists the result. The user token is never stored. On failure the stored
// credential is left untouched.
func (s *store) Bootstrap(ctx context.Context, userToken string) (*Credential, error) {
	if userToken == "" {
		return nil, fmt.Errorf("%w: a user token is required to bootstrap the page credential", config.ErrConfiguration)
	}

	longLived, err := s.exchanger.ExchangeUserToken(ctx, userToken)
	if err != nil {
		return nil, exchangeError("user token exchange", err)
	}
	pageToken, err := s.exchanger.PageAccessToken(ctx, longLived, s.pageID)
	if err != nil {
		return nil, exchangeError("page token lookup", err)
	}
	if pageToken == "" {
		return nil, fmt.Errorf("%w: page %s returned an empty access token", ErrExchange, s.pageID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC().Truncate(time.Second)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (kind, token, page_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET
			token = excluded.token,
			page_id = excluded.page_id,
			updated_at = excluded.updated_at;
	`, KindPage, pageToken, s.pageID, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to persist page credential: %w", err)
	}

	log.Info("Bootstrapped page credential", "page_id", s.pageID)
	return &Credential{Kind: KindPage, Token: pageToken, PageID: s.pageID, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *store) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE kind = ?`, KindPage)
	if err != nil {
		return fmt.Errorf("failed to invalidate page credential: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Warn("Invalidated page credential", "page_id", s.pageID)
	}
	return nil
}

// exchangeError wraps a provider failure in ErrExchange. Configuration problems pass through.
func exchangeError(step string, err error) error {
	if errors.Is(err, config.ErrConfiguration) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrExchange, step, err)
}
