package notifier

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendReportFunc func(ctx context.Context, report Report, dryRun bool) error

	// Call records
	SendReportCalls []struct {
		Report Report
		DryRun bool
	}
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendReport(ctx context.Context, report Report, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendReportCalls = append(m.SendReportCalls, struct {
		Report Report
		DryRun bool
	}{report, dryRun})
	if m.SendReportFunc != nil {
		return m.SendReportFunc(ctx, report, dryRun)
	}
	return nil
}
