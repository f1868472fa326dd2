package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	// ErrUnauthorized means the access token itself was rejected (expired, revoked or malformed).
	// Every later call with the same token will fail the same way.
	ErrUnauthorized = errors.New("access token rejected by the Graph API")
	// ErrNoData means the Graph API has no insights for the article yet.
	ErrNoData = errors.New("no insights available")
)

// Metric is an Instant Article insights metric name.
type Metric string

const (
	MetricViews         Metric = "all_views"
	MetricViewDurations Metric = "all_view_durations_average"
	MetricScrolls       Metric = "all_scrolls_average"
)

// Period is the aggregation window the Graph API accepts for the metric.
func (m Metric) Period() string {
	if m == MetricViews {
		return "day"
	}
	return "week"
}

// Since is the earliest date the metric is available for.
func (m Metric) Since() string {
	if m == MetricViewDurations {
		return "2016-03-24"
	}
	return "2016-01-15"
}

func (m Metric) query() string {
	return fmt.Sprintf("instant_article{insights.metric(%s).period(%s).since(%s)}", m, m.Period(), m.Since())
}

// DataPoint is one period of an insights series. Value is kept raw because
// some metrics report a number and others a structured breakdown.
type DataPoint struct {
	Time  string          `json:"time"`
	Value json.RawMessage `json:"value"`
}

// Number returns the point's value if it is numeric (quoted or not).
func (p DataPoint) Number() (float64, bool) {
	raw := strings.Trim(strings.TrimSpace(string(p.Value)), `"`)
	f, err := strconv.ParseFloat(raw, 64)
	return f, err == nil
}

// Series is the insights data returned for one article and metric.
type Series struct {
	Metric Metric
	Points []DataPoint
	// Raw is the provider's data array exactly as returned.
	Raw json.RawMessage
}

// Total sums the numeric values of every point.
func (s *Series) Total() float64 {
	var total float64
	for _, p := range s.Points {
		if v, ok := p.Number(); ok {
			total += v
		}
	}
	return total
}

// APIError is an error response from the Graph API.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
	Subcode    int    `json:"error_subcode"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match token rejections.
// Permission errors (code 10, 200-299) are about a single object and do not match.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.tokenRejected()
}

func (e *APIError) tokenRejected() bool {
	switch e.Code {
	case 190, 102:
		return true
	case 0:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type insightsResponse struct {
	ID             string `json:"id"`
	InstantArticle *struct {
		ID       string `json:"id"`
		Insights *struct {
			Data json.RawMessage `json:"data"`
		} `json:"insights"`
	} `json:"instant_article"`
}
