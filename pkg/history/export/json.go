package export

import (
	"context"
	"encoding/json"
	"io"

	"ingredient-scout/scout/pkg/history"
)

// JSONExporter exports records to JSON.
type JSONExporter struct {
	// Pretty indents the output. Ignored when Lines is set.
	Pretty bool

	// Lines writes one compact record per line instead of an array.
	Lines bool
}

// NewJSONExporter creates a JSON array exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// NewNDJSONExporter creates a newline-delimited JSON exporter.
func NewNDJSONExporter() *JSONExporter {
	return &JSONExporter{Lines: true}
}

// Export writes records to w. An empty slice writes "[]" (or nothing in
// Lines mode).
func (e *JSONExporter) Export(ctx context.Context, records []*history.Record, w io.Writer) error {
	ch := make(chan *history.Record, len(records))
	for _, r := range records {
		ch <- r
	}
	close(ch)
	return e.ExportStream(ctx, ch, w)
}

// ExportStream writes records from recordsCh until it is closed.
func (e *JSONExporter) ExportStream(ctx context.Context, recordsCh <-chan *history.Record, w io.Writer) error {
	if !e.Lines {
		if _, err := io.WriteString(w, "["); err != nil {
			return history.NewExportError(FormatJSON, 0, err)
		}
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				return e.finish(w, count)
			}

			data, err := e.serialize(record)
			if err != nil {
				return history.NewExportError(FormatJSON, count, err)
			}
			if _, err := w.Write(e.separator(count)); err != nil {
				return history.NewExportError(FormatJSON, count, err)
			}
			if _, err := w.Write(data); err != nil {
				return history.NewExportError(FormatJSON, count, err)
			}
			count++
		}
	}
}

func (e *JSONExporter) separator(count int) []byte {
	switch {
	case e.Lines:
		return nil
	case e.Pretty && count == 0:
		return []byte("\n  ")
	case e.Pretty:
		return []byte(",\n  ")
	case count == 0:
		return nil
	default:
		return []byte(",")
	}
}

func (e *JSONExporter) finish(w io.Writer, count int) error {
	closing := "]\n"
	switch {
	case e.Lines:
		return nil
	case e.Pretty && count > 0:
		closing = "\n]\n"
	}
	if _, err := io.WriteString(w, closing); err != nil {
		return history.NewExportError(FormatJSON, count, err)
	}
	return nil
}

func (e *JSONExporter) serialize(record *history.Record) ([]byte, error) {
	if e.Lines {
		data, err := json.Marshal(record)
		return append(data, '\n'), err
	}
	if e.Pretty {
		return json.MarshalIndent(record, "  ", "  ")
	}
	return json.Marshal(record)
}
