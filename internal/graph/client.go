package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/config"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	Version           string
	ClientID          string
	ClientSecret      string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client talks to the Facebook Graph API.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	BaseURL      string
	Version      string
	clientID     string
	clientSecret string
}

// Ensure Client implements both interfaces.
var (
	_ InsightsClient = (*Client)(nil)
	_ TokenExchanger = (*Client)(nil)
)

// NewClient creates a Graph API client. Requests are rate limited to opts.RequestsPerSecond.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://graph.facebook.com"
	}
	if opts.Version == "" {
		opts.Version = "v2.6"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &Client{
		httpClient:   &http.Client{Timeout: opts.Timeout},
		limiter:      rate.NewLimiter(limit, 1),
		BaseURL:      strings.TrimRight(opts.BaseURL, "/"),
		Version:      opts.Version,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
	}
}

// ExchangeUserToken exchanges a short-lived user token for a long-lived one.
func (c *Client) ExchangeUserToken(ctx context.Context, userToken string) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("%w: FB_CLIENT_ID and FB_CLIENT_SECRET are required to exchange a user token", config.ErrConfiguration)
	}
	params := url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {c.clientID},
		"client_secret":     {c.clientSecret},
		"fb_exchange_token": {userToken},
	}
	body, err := c.get(ctx, "/oauth/access_token", params)
	if err != nil {
		return "", fmt.Errorf("failed to exchange user token: %w", err)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err == nil && tok.AccessToken != "" {
		return tok.AccessToken, nil
	}
	// Older API versions answer with a form-encoded body.
	if values, err := url.ParseQuery(string(body)); err == nil && values.Get("access_token") != "" {
		return values.Get("access_token"), nil
	}
	return "", fmt.Errorf("no access_token in token exchange response: %q", string(body))
}

// PageAccessToken reads the page's access token using a long-lived user token.
// The user must manage the page, otherwise the field is absent.
func (c *Client) PageAccessToken(ctx context.Context, userToken, pageID string) (string, error) {
	params := url.Values{
		"fields":       {"access_token"},
		"access_token": {userToken},
	}
	body, err := c.get(ctx, c.versioned("/"+url.PathEscape(pageID)), params)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page access token: %w", err)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to decode page token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("page %s did not return an access_token, the user token lacks page permissions: %s", pageID, strings.TrimSpace(string(body)))
	}
	return tok.AccessToken, nil
}

// Insights fetches one metric for the Instant Article published at articleURL.
func (c *Client) Insights(ctx context.Context, token, articleURL string, metric Metric) (*Series, error) {
	params := url.Values{
		"id":           {articleURL},
		"fields":       {metric.query()},
		"access_token": {token},
	}
	body, err := c.get(ctx, c.versioned("/"), params)
	if err != nil {
		return nil, err
	}

	var resp insightsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode insights response: %w", err)
	}
	if resp.InstantArticle == nil || resp.InstantArticle.Insights == nil || len(resp.InstantArticle.Insights.Data) == 0 {
		return nil, fmt.Errorf("%w: metric %s for %s", ErrNoData, metric, articleURL)
	}

	series := &Series{Metric: metric, Raw: resp.InstantArticle.Insights.Data}
	if err := json.Unmarshal(series.Raw, &series.Points); err != nil {
		return nil, fmt.Errorf("failed to decode insights data for %s: %w", metric, err)
	}
	log.Debug("Fetched insights", "metric", metric, "url", articleURL, "points", len(series.Points))
	return series, nil
}

func (c *Client) versioned(path string) string {
	return "/" + c.Version + path
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.BaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fb-instant-article-insights/1.0")

	// The query carries tokens, so only the path is logged.
	log.Debug("Requesting Graph API", "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := decodeError(resp.StatusCode, body)
		log.Debug("Received non-OK HTTP status from Graph API", "status", resp.StatusCode, "path", path, "error", apiErr)
		return nil, apiErr
	}
	return body, nil
}

func decodeError(status int, body []byte) *APIError {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.StatusCode = status
		return envelope.Error
	}
	return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}
