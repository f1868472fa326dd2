package credential

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Current is returned by Load when LoadFunc is nil.
	Current *Credential

	// Spies for method calls
	LoadFunc       func(ctx context.Context) (*Credential, error)
	BootstrapFunc  func(ctx context.Context, userToken string) (*Credential, error)
	InvalidateFunc func(ctx context.Context) error

	// Call records
	LoadCalled       int
	BootstrapCalls   []string
	InvalidateCalled int
}

// NewMock creates a new mock holding cred (which may be nil).
func NewMock(cred *Credential) *MockStore {
	return &MockStore{Current: cred}
}

func (m *MockStore) Load(ctx context.Context) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalled++
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return m.Current, nil
}

func (m *MockStore) Bootstrap(ctx context.Context, userToken string) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BootstrapCalls = append(m.BootstrapCalls, userToken)
	if m.BootstrapFunc != nil {
		return m.BootstrapFunc(ctx, userToken)
	}
	m.Current = &Credential{Kind: KindPage, Token: "page-" + userToken}
	return m.Current, nil
}

func (m *MockStore) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvalidateCalled++
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx)
	}
	m.Current = nil
	return nil
}
