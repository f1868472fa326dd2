package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Header is the fixed column order of every export.
var Header = []string{
	"ID",
	"URL",
	"Headline",
	"Total views",
	"Average view duration",
	"Scroll depth",
	"Last updated",
}

// tableColumns are the Header indexes shown in the terminal table.
var tableColumns = []int{0, 2, 3, 4, 6}

// Rows flattens records into export cells in Header order.
func Rows(records []article.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			rec.URL,
			rec.Title,
			strconv.FormatInt(rec.Views, 10),
			strconv.FormatFloat(rec.AverageViewDuration, 'f', -1, 64),
			scrollDepth(rec.ScrollDepth),
			rec.LastUpdated.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

// CSV renders records as a CSV document with a header row.
func CSV(records []article.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(Rows(records)); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

// Table renders a compact view of records to w.
func Table(w io.Writer, records []article.Record) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)

	table.Header(pick(Header))
	for _, row := range Rows(records) {
		if err := table.Append(pick(row)); err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}
	return table.Render()
}

func pick(row []string) []string {
	out := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		out[i] = row[col]
	}
	return out
}

// scrollDepth compacts the stored provider JSON so it fits in one cell.
func scrollDepth(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
