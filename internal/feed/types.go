package feed

import "time"

// Entry is one article listed in the Instant Articles feed.
type Entry struct {
	GUID      string
	URL       string
	Title     string
	Author    string
	Published *time.Time
}
