package slack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/metrics"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/notifier"
	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

var _ notifier.Notifier = &Notifier{}

const uploadTimeout = 30 * time.Second

// Notifier uploads sync reports to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// SendReport uploads the report's CSV to the channel with a short summary comment.
func (s *Notifier) SendReport(ctx context.Context, report notifier.Report, dryRun bool) error {
	if s.channelID == "" {
		return errors.New("no Slack channel configured")
	}
	filename := report.Filename
	if filename == "" {
		filename = "fbia.csv"
	}
	params := slack.UploadFileV2Parameters{
		Reader:         bytes.NewReader(report.CSV),
		FileSize:       len(report.CSV),
		Filename:       filename,
		Title:          FormatTitle(report),
		InitialComment: FormatComment(report),
		Channel:        s.channelID,
	}

	if dryRun {
		log.Info("[Dry Run] Would upload Slack report", "channel", s.channelID, "filename", params.Filename, "bytes", params.FileSize, "comment", params.InitialComment)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	file, err := s.api.UploadFileV2Context(ctx, params)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to upload Slack report", "error", err, "channel", s.channelID)
		return fmt.Errorf("failed to upload report: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully uploaded Slack report", "channel", s.channelID, "file_id", file.ID)
	return nil
}
