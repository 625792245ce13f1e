package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"ingredient-scout/scout/pkg/api/types"
	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/history"
	"ingredient-scout/scout/pkg/telemetry/logging"
	"ingredient-scout/scout/pkg/telemetry/tracing"
)

// HistoryRecorder persists analyses. *recorder.Recorder implements it.
type HistoryRecorder interface {
	Record(ctx context.Context, requestID string, ingredients []string, a conflict.Assessment) (*history.Record, error)
}

// AnalysisRecorder observes engine assessments. *metrics.Collector
// implements it.
type AnalysisRecorder interface {
	RecordAnalysis(a conflict.Assessment, duration time.Duration)
}

// AnalyzeConfig configures an AnalyzeHandler. Only the limits are required;
// nil collaborators are skipped.
type AnalyzeConfig struct {
	// MaxBodyBytes bounds the request body. 0 disables the limit.
	MaxBodyBytes int64

	// MaxIngredients bounds the list length. 0 disables the limit.
	MaxIngredients int

	History HistoryRecorder
	Metrics AnalysisRecorder
	Tracer  *tracing.Tracer
}

// AnalyzeHandler serves POST /api/analyze.
type AnalyzeHandler struct {
	analyzer conflict.Analyzer
	cfg      AnalyzeConfig
	tracer   *tracing.Tracer
	logger   *slog.Logger
}

// NewAnalyzeHandler creates a handler evaluating with analyzer.
func NewAnalyzeHandler(analyzer conflict.Analyzer, cfg AnalyzeConfig) *AnalyzeHandler {
	tracer := cfg.Tracer
	if tracer == nil {
		// A disabled tracer never fails to build.
		tracer, _ = tracing.New(config.TracingConfig{})
	}
	return &AnalyzeHandler{
		analyzer: analyzer,
		cfg:      cfg,
		tracer:   tracer,
		logger:   slog.Default().With("component", "api.analyze"),
	}
}

// ServeHTTP implements http.Handler.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		types.WriteMethodNotAllowed(w, http.MethodPost, http.MethodOptions)
		return
	}

	body := r.Body
	if h.cfg.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			types.WriteError(w, http.StatusRequestEntityTooLarge, types.MsgBodyTooLarge)
			return
		}
		types.WriteError(w, http.StatusBadRequest, types.MsgMissingIngredients)
		return
	}

	req, rerr := types.ParseAnalyzeRequest(data, h.cfg.MaxIngredients)
	if rerr != nil {
		h.logger.DebugContext(r.Context(), "rejected analyze request", "reason", rerr.Msg)
		types.WriteError(w, http.StatusBadRequest, rerr.Msg)
		return
	}

	ctx := r.Context()
	h.logger.InfoContext(ctx, "analyzing ingredients",
		"ingredients", req.Ingredients,
		"count", len(req.Ingredients),
	)

	assessment := h.assess(ctx, req.Ingredients)

	if h.cfg.History != nil {
		if _, err := h.cfg.History.Record(ctx, logging.GetRequestID(ctx), req.Ingredients, assessment); err != nil {
			// The verdict is still returned; history is best effort.
			h.logger.WarnContext(ctx, "failed to record analysis", "error", err)
		}
	}

	types.WriteJSON(w, http.StatusOK, types.AnalyzeResponse(assessment.Verdict))
}

func (h *AnalyzeHandler) assess(ctx context.Context, ingredients []string) conflict.Assessment {
	_, span := h.tracer.Start(ctx, tracing.SpanAssess)
	defer span.End()

	start := time.Now()
	a := h.analyzer.Assess(ingredients)
	elapsed := time.Since(start)

	tracing.SetAssessmentAttributes(span, len(ingredients), a)
	if h.cfg.Metrics != nil {
		h.cfg.Metrics.RecordAnalysis(a, elapsed)
	}
	return a
}
