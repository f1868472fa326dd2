package slack

import (
	"fmt"
	"strings"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/notifier"
)

// FormatTitle names the uploaded file after the report date.
func FormatTitle(report notifier.Report) string {
	return "Facebook Insights report for " + report.GeneratedAt.Format("Jan 02, 2006")
}

// FormatComment is the message posted alongside the file.
func FormatComment(report notifier.Report) string {
	var b strings.Builder
	b.WriteString("Here are the latest :chart_with_upwards_trend: numbers for our Facebook Instant Articles.")
	fmt.Fprintf(&b, "\n%d articles tracked. This run saw %d feed entries: %d updated, %d skipped, %d failed.",
		report.Records, report.Seen, report.Updated, report.Skipped, report.Failed)
	if report.Failed > 0 {
		b.WriteString("\n:warning: Some articles could not be refreshed, check the logs for details.")
	}
	return b.String()
}
