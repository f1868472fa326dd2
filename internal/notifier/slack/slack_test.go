package slack

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/metrics"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/notifier"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	uploadFileV2ContextFunc func(ctx context.Context, params slackapi.UploadFileV2Parameters) (*slackapi.FileSummary, error)
}

func (m *mockSlackAPI) UploadFileV2Context(ctx context.Context, params slackapi.UploadFileV2Parameters) (*slackapi.FileSummary, error) {
	if m.uploadFileV2ContextFunc != nil {
		return m.uploadFileV2ContextFunc(ctx, params)
	}
	return &slackapi.FileSummary{ID: "F123", Title: params.Title}, nil
}

func testReport() notifier.Report {
	return notifier.Report{
		Filename:    "fbia.csv",
		CSV:         []byte("ID,URL\n1,https://www.dallasnews.com/a\n"),
		GeneratedAt: time.Date(2016, 5, 2, 8, 0, 0, 0, time.UTC),
		Records:     12,
		Seen:        10,
		Updated:     9,
		Skipped:     0,
		Failed:      1,
	}
}

func TestSendReport_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	err := notifier.SendReport(context.Background(), testReport(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendReport_Success(t *testing.T) {
	uploadCalled := false
	api := &mockSlackAPI{
		uploadFileV2ContextFunc: func(ctx context.Context, params slackapi.UploadFileV2Parameters) (*slackapi.FileSummary, error) {
			uploadCalled = true
			assert.Equal(t, "C0KF7RARL", params.Channel)
			assert.Equal(t, "fbia.csv", params.Filename)
			assert.Equal(t, "Facebook Insights report for May 02, 2016", params.Title)
			body, err := io.ReadAll(params.Reader)
			require.NoError(t, err)
			assert.Equal(t, testReport().CSV, body)
			assert.Equal(t, len(body), params.FileSize)
			return &slackapi.FileSummary{ID: "F1"}, nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C0KF7RARL", metrics)

	err := notifier.SendReport(context.Background(), testReport(), false)
	require.NoError(t, err)
	assert.True(t, uploadCalled, "UploadFileV2Context should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendReport_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		uploadFileV2ContextFunc: func(ctx context.Context, params slackapi.UploadFileV2Parameters) (*slackapi.FileSummary, error) {
			return nil, expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	err := notifier.SendReport(context.Background(), testReport(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendReport_NoChannel(t *testing.T) {
	notifier := NewNotifierWithAPI(&mockSlackAPI{}, "", metrics.NewMock())
	assert.Error(t, notifier.SendReport(context.Background(), testReport(), false))
}

func TestFormatComment(t *testing.T) {
	comment := FormatComment(testReport())
	assert.Contains(t, comment, "numbers for our Facebook Instant Articles")
	assert.Contains(t, comment, "12 articles tracked")
	assert.Contains(t, comment, "9 updated, 0 skipped, 1 failed")
	assert.Contains(t, comment, ":warning:")

	clean := testReport()
	clean.Failed = 0
	assert.NotContains(t, FormatComment(clean), ":warning:")
}
