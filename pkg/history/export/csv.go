package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"ingredient-scout/scout/pkg/history"
)

// listSeparator joins list columns inside one CSV cell.
const listSeparator = "; "

// flushEvery is how many streamed rows are buffered between flushes.
const flushEvery = 100

// CSVExporter exports records to CSV.
type CSVExporter struct {
	// IncludeHeader writes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Header returns the CSV column names.
func Header() []string {
	return []string{
		"id", "request_id", "recorded_at",
		"status", "risk_score", "matched_rule",
		"ingredients", "ingredients_hash", "keyword_hits",
		"engine", "catalog_version", "summary",
	}
}

// Export writes records to w.
func (e *CSVExporter) Export(ctx context.Context, records []*history.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header()); err != nil {
			return history.NewExportError(FormatCSV, 0, err)
		}
	}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(recordToRow(record)); err != nil {
			return history.NewExportError(FormatCSV, i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return history.NewExportError(FormatCSV, len(records), err)
	}
	return nil
}

// ExportStream writes records from recordsCh until it is closed, flushing
// every 100 rows.
func (e *CSVExporter) ExportStream(ctx context.Context, recordsCh <-chan *history.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header()); err != nil {
			return history.NewExportError(FormatCSV, 0, err)
		}
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			writer.Flush()
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return history.NewExportError(FormatCSV, count, err)
				}
				return nil
			}

			if err := writer.Write(recordToRow(record)); err != nil {
				return history.NewExportError(FormatCSV, count, err)
			}
			count++

			if count%flushEvery == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return history.NewExportError(FormatCSV, count, err)
				}
			}
		}
	}
}

func recordToRow(r *history.Record) []string {
	return []string{
		r.ID,
		r.RequestID,
		r.RecordedAt.UTC().Format(time.RFC3339Nano),
		string(r.Status),
		strconv.Itoa(r.RiskScore),
		string(r.MatchedRule),
		strings.Join(r.Ingredients, listSeparator),
		r.IngredientsHash,
		strings.Join(r.KeywordHits, listSeparator),
		r.Engine,
		r.CatalogVersion,
		r.Summary,
	}
}
