package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instantArticlesRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>The Dallas Morning News</title>
    <link>https://www.dallasnews.com</link>
    <item>
      <title>First story</title>
      <link>https://www.dallasnews.com/news/first</link>
      <guid>first-guid</guid>
      <dc:creator>Jane Reporter</dc:creator>
      <pubDate>Sun, 01 May 2016 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Second story</title>
      <link> https://www.dallasnews.com/news/second </link>
    </item>
  </channel>
</rss>`

func TestReader_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(instantArticlesRSS))
	}))
	defer server.Close()

	entries, err := NewReader(server.URL, server.Client()).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "first-guid", first.GUID)
	assert.Equal(t, "https://www.dallasnews.com/news/first", first.URL)
	assert.Equal(t, "First story", first.Title)
	assert.Equal(t, "Jane Reporter", first.Author)
	require.NotNil(t, first.Published)
	assert.Equal(t, time.Date(2016, 5, 1, 12, 0, 0, 0, time.UTC), *first.Published)

	second := entries[1]
	assert.Equal(t, "https://www.dallasnews.com/news/second", second.URL)
	assert.Equal(t, second.URL, second.GUID)
	assert.Nil(t, second.Published)
}

func TestReader_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewReader(server.URL, server.Client()).Fetch(context.Background())
	assert.Error(t, err)
}
