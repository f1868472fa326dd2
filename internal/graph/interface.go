package graph

import "context"

// InsightsClient fetches Instant Article insights for a canonical article URL.
type InsightsClient interface {
	Insights(ctx context.Context, token, articleURL string, metric Metric) (*Series, error)
}

// TokenExchanger turns a short-lived user token into a page access token.
type TokenExchanger interface {
	ExchangeUserToken(ctx context.Context, userToken string) (string, error)
	PageAccessToken(ctx context.Context, userToken, pageID string) (string, error)
}
