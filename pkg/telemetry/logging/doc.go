// Package logging builds the service's structured slog loggers.
//
// Loggers created by New write JSON or text and enrich every record with
// the request and trace identifiers carried by the context passed to the
// *Context logging methods:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "8f2c...")
//	logger.InfoContext(ctx, "Analysis complete", "status", "danger")
//	// {"level":"INFO","msg":"Analysis complete","status":"danger","request_id":"8f2c..."}
//
// Records logged inside an active OpenTelemetry span also carry trace_id and
// span_id.
package logging
