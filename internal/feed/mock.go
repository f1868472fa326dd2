package feed

import (
	"context"
	"sync"
)

// MockReader is a mock implementation of Reader for testing.
type MockReader struct {
	mu sync.Mutex

	Entries   []Entry
	FetchFunc func(ctx context.Context) ([]Entry, error)

	FetchCalled int
}

// NewMock creates a MockReader returning entries.
func NewMock(entries ...Entry) *MockReader {
	return &MockReader{Entries: entries}
}

func (m *MockReader) Fetch(ctx context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalled++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return m.Entries, nil
}
