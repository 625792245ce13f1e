package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ingredient-scout/scout/pkg/history"
)

// Formats accepted by New.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Exporter writes records in one format.
type Exporter interface {
	// Export writes all of records to w.
	Export(ctx context.Context, records []*history.Record, w io.Writer) error

	// ExportStream writes records from recordsCh until it is closed.
	ExportStream(ctx context.Context, recordsCh <-chan *history.Record, w io.Writer) error
}

// New returns the exporter for format with its default options: CSV with a
// header row, or pretty-printed JSON.
func New(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return NewCSVExporter(true), nil
	case FormatJSON:
		return NewJSONExporter(true), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want csv or json)", format)
	}
}

// Stream sends every record matching q, oldest first, reading pageSize
// records per query. The record channel is closed when done; the error
// channel then yields the first failure or nil.
func Stream(ctx context.Context, store history.Storage, q history.Query, pageSize int) (<-chan *history.Record, <-chan error) {
	if pageSize <= 0 || pageSize > history.MaxLimit {
		pageSize = history.MaxLimit
	}

	out := make(chan *history.Record, pageSize)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(out)

		page := q
		page.SortOrder = history.SortAsc
		page.Limit = pageSize
		page.Offset = q.Offset

		for {
			records, err := store.Query(ctx, &page)
			if err != nil {
				errc <- err
				return
			}
			for _, r := range records {
				select {
				case out <- r:
				case <-ctx.Done():
					errc <- ctx.Err()
					return
				}
			}
			if len(records) < pageSize {
				errc <- nil
				return
			}
			page.Offset += len(records)
		}
	}()

	return out, errc
}
