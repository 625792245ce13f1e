// Package export writes history records as CSV or JSON for offline review.
//
// # JSON Export
//
//	exporter := export.NewJSONExporter(true)
//	err := exporter.Export(ctx, records, os.Stdout)
//
// The JSON exporter writes an array of records. With Lines set it writes
// one compact record per line (NDJSON) instead.
//
// # CSV Export
//
//	exporter := export.NewCSVExporter(true)
//	err := exporter.Export(ctx, records, f)
//
// List columns (ingredients, keyword hits) are joined with "; " so each
// record stays on one row.
//
// # Streaming
//
// Stream pages through a history.Storage and feeds the records to
// ExportStream, so large histories are written without loading them all:
//
//	records, errs := export.Stream(ctx, store, query, 500)
//	if err := exporter.ExportStream(ctx, records, w); err != nil {
//	    return err
//	}
//	if err := <-errs; err != nil {
//	    return err
//	}
//
// Exporters return *history.ExportError when encoding or writing fails.
package export
