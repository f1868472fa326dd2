package notifier

import (
	"context"
	"time"
)

// Notifier defines a high-level interface for delivering sync reports.
type Notifier interface {
	SendReport(ctx context.Context, report Report, dryRun bool) error
}

// Report is the CSV snapshot of the registry plus the counts of the run that produced it.
type Report struct {
	Filename    string
	CSV         []byte
	GeneratedAt time.Time
	Records     int
	Seen        int
	Updated     int
	Skipped     int
	Failed      int
}
