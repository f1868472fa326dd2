package credential

import "context"

// Store persists the single page credential used to query insights.
type Store interface {
	// Load returns the persisted page credential, or nil if there is none.
	Load(ctx context.Context) (*Credential, error)
	// Bootstrap derives a page credential from a short-lived user token and persists it.
	Bootstrap(ctx context.Context, userToken string) (*Credential, error)
	// Invalidate removes the persisted page credential.
	Invalidate(ctx context.Context) error
}
