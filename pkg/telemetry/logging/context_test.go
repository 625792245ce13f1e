package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID(empty) = %q, want empty", got)
	}

	ctx = WithRequestID(ctx, "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("GetRequestID() = %q, want abc", got)
	}
}

func TestContextHandler_TraceFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(buf, nil)))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.InfoContext(ctx, "traced")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["trace_id"] != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace_id = %v", record["trace_id"])
	}
	if record["span_id"] != "00f067aa0ba902b7" {
		t.Errorf("span_id = %v", record["span_id"])
	}
}

func TestContextHandler_WithGroup(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(buf, nil))).WithGroup("engine")

	logger.InfoContext(WithRequestID(context.Background(), "r1"), "grouped", "rules", 2)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	group, ok := record["engine"].(map[string]any)
	if !ok {
		t.Fatalf("engine group missing: %v", record)
	}
	if group["rules"] != float64(2) || group["request_id"] != "r1" {
		t.Errorf("group = %v", group)
	}
}
