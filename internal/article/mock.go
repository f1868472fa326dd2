package article

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MockRegistry is an in-memory Registry for testing.
// It is safe for concurrent use.
type MockRegistry struct {
	mu      sync.Mutex
	records map[string]Record

	// Spies for method calls
	UpsertFunc func(ctx context.Context, id string, meta Metadata, metrics Metrics, ts time.Time) error
	GetAllFunc func(ctx context.Context) ([]Record, error)

	// Call records
	UpsertCalls []UpsertCall
}

// UpsertCall holds the arguments for a call to Upsert.
type UpsertCall struct {
	ID       string
	Metadata Metadata
	Metrics  Metrics
	Time     time.Time
}

// NewMock creates an empty MockRegistry.
func NewMock() *MockRegistry {
	return &MockRegistry{records: make(map[string]Record)}
}

func (m *MockRegistry) ResolveID(canonicalURL string) (string, error) {
	return ResolveID(canonicalURL)
}

func (m *MockRegistry) Upsert(ctx context.Context, id string, meta Metadata, metrics Metrics, ts time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls = append(m.UpsertCalls, UpsertCall{ID: id, Metadata: meta, Metrics: metrics, Time: ts})
	if m.UpsertFunc != nil {
		if err := m.UpsertFunc(ctx, id, meta, metrics, ts); err != nil {
			return err
		}
	}
	rec, ok := m.records[id]
	if !ok {
		rec = Record{ID: id, Metadata: meta, FirstSeen: ts}
	}
	rec.Metrics = metrics
	rec.LastUpdated = ts
	m.records[id] = rec
	return nil
}

func (m *MockRegistry) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &rec, nil
}

func (m *MockRegistry) GetAll(ctx context.Context) ([]Record, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].FirstSeen.Equal(records[j].FirstSeen) {
			return records[i].ID < records[j].ID
		}
		return records[i].FirstSeen.Before(records[j].FirstSeen)
	})
	return records, nil
}

func (m *MockRegistry) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

// UpsertedIDs returns the ids passed to Upsert, in call order.
func (m *MockRegistry) UpsertedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.UpsertCalls))
	for i, c := range m.UpsertCalls {
		ids[i] = c.ID
	}
	return ids
}
