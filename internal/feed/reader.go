package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mmcdole/gofeed"
)

type reader struct {
	url    string
	parser *gofeed.Parser
}

// NewReader creates a Reader for the RSS or Atom feed at feedURL.
// A nil httpClient uses http.DefaultClient.
func NewReader(feedURL string, httpClient *http.Client) Reader {
	parser := gofeed.NewParser()
	if httpClient != nil {
		parser.Client = httpClient
	}
	parser.UserAgent = "fb-instant-article-insights/1.0"
	return &reader{url: feedURL, parser: parser}
}

func (r *reader) Fetch(ctx context.Context) ([]Entry, error) {
	feed, err := r.parser.ParseURLWithContext(r.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", r.url, err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, toEntry(item))
	}
	log.Info("Fetched feed", "url", r.url, "title", feed.Title, "entries", len(entries))
	return entries, nil
}

func toEntry(item *gofeed.Item) Entry {
	entry := Entry{
		GUID:  item.GUID,
		URL:   strings.TrimSpace(item.Link),
		Title: strings.TrimSpace(item.Title),
	}
	if entry.GUID == "" {
		entry.GUID = entry.URL
	}
	if item.Author != nil {
		entry.Author = item.Author.Name
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		entry.Author = item.Authors[0].Name
	}
	if item.PublishedParsed != nil {
		published := item.PublishedParsed.UTC()
		entry.Published = &published
	} else if item.UpdatedParsed != nil {
		updated := item.UpdatedParsed.UTC()
		entry.Published = &updated
	}
	return entry
}
