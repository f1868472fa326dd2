package reconciler

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchError(t *testing.T) {
	fe := FetchError{ArticleID: "id-1", URL: "https://www.dallasnews.com/a", Err: graph.ErrNoData}

	var err error = fe
	assert.ErrorIs(t, err, graph.ErrNoData)
	assert.Equal(t, "fetch metrics for https://www.dallasnews.com/a: no insights available", err.Error())

	var target FetchError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &target))
	assert.Equal(t, "id-1", target.ArticleID)

	data, err := json.Marshal(Summary{Failures: []FetchError{fe}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"failures":[{"article_id":"id-1","url":"https://www.dallasnews.com/a","error":"no insights available"}]`)
}
