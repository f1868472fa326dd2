package graph

import (
	"context"
	"sync"
)

// Mock is a mock implementation of InsightsClient and TokenExchanger for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	InsightsFunc          func(ctx context.Context, token, articleURL string, metric Metric) (*Series, error)
	ExchangeUserTokenFunc func(ctx context.Context, userToken string) (string, error)
	PageAccessTokenFunc   func(ctx context.Context, userToken, pageID string) (string, error)

	// Call records
	InsightsCalls []InsightsCall
	ExchangeCalls []string
	PageCalls     []struct{ UserToken, PageID string }
}

// InsightsCall holds the arguments for a call to Insights.
type InsightsCall struct {
	Token  string
	URL    string
	Metric Metric
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Insights(ctx context.Context, token, articleURL string, metric Metric) (*Series, error) {
	m.mu.Lock()
	m.InsightsCalls = append(m.InsightsCalls, InsightsCall{Token: token, URL: articleURL, Metric: metric})
	fn := m.InsightsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, token, articleURL, metric)
	}
	return &Series{Metric: metric}, nil
}

func (m *Mock) ExchangeUserToken(ctx context.Context, userToken string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExchangeCalls = append(m.ExchangeCalls, userToken)
	if m.ExchangeUserTokenFunc != nil {
		return m.ExchangeUserTokenFunc(ctx, userToken)
	}
	return "long-lived-" + userToken, nil
}

func (m *Mock) PageAccessToken(ctx context.Context, userToken, pageID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PageCalls = append(m.PageCalls, struct{ UserToken, PageID string }{userToken, pageID})
	if m.PageAccessTokenFunc != nil {
		return m.PageAccessTokenFunc(ctx, userToken, pageID)
	}
	return "page-token", nil
}

// InsightsCallCount returns the number of recorded Insights calls.
func (m *Mock) InsightsCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.InsightsCalls)
}

// URLsQueried returns the distinct article URLs seen by Insights, in call order.
func (m *Mock) URLsQueried() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var urls []string
	for _, c := range m.InsightsCalls {
		if !seen[c.URL] {
			seen[c.URL] = true
			urls = append(urls, c.URL)
		}
	}
	return urls
}
