package feed

import "context"

// Reader returns the current feed snapshot in feed order.
type Reader interface {
	Fetch(ctx context.Context) ([]Entry, error)
}
