package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ingredient-scout/scout/pkg/api/types"
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/history"
)

// HistoryHandler serves GET /api/history.
//
// Query parameters:
//
//	status   safe or danger
//	rule     matched rule id
//	since    RFC 3339 lower bound (inclusive)
//	until    RFC 3339 upper bound (inclusive)
//	limit    page size, default 100, max 1000
//	offset   records to skip
//	order    asc or desc (default desc, newest first)
type HistoryHandler struct {
	storage history.Storage
	logger  *slog.Logger
}

// NewHistoryHandler creates a handler reading from storage. A nil storage
// answers 404 on every request.
func NewHistoryHandler(storage history.Storage) *HistoryHandler {
	return &HistoryHandler{
		storage: storage,
		logger:  slog.Default().With("component", "api.history"),
	}
}

// ServeHTTP implements http.Handler.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		types.WriteMethodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	if h.storage == nil {
		types.WriteError(w, http.StatusNotFound, types.MsgHistoryUnavailable)
		return
	}

	q, err := parseHistoryQuery(r.URL.Query())
	if err == nil {
		err = q.Validate()
	}
	if err != nil {
		types.WriteJSON(w, http.StatusBadRequest, &types.ErrorResponse{
			Error:   types.MsgInvalidQuery,
			Message: err.Error(),
		})
		return
	}
	q.ApplyDefaults()

	ctx := r.Context()
	records, err := h.storage.Query(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "history query failed", "error", err)
		types.WriteJSON(w, http.StatusInternalServerError, types.NewInternalError("history query failed"))
		return
	}
	total, err := h.storage.Count(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "history count failed", "error", err)
		types.WriteJSON(w, http.StatusInternalServerError, types.NewInternalError("history count failed"))
		return
	}

	if records == nil {
		records = []*history.Record{}
	}
	types.WriteJSON(w, http.StatusOK, &types.HistoryResponse{
		Records: records,
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
	})
}

func parseHistoryQuery(v url.Values) (*history.Query, error) {
	q := &history.Query{
		Status:    conflict.Status(v.Get("status")),
		Rule:      conflict.RuleID(v.Get("rule")),
		SortOrder: v.Get("order"),
	}

	var err error
	if q.Limit, err = intParam(v, "limit"); err != nil {
		return nil, err
	}
	if q.Offset, err = intParam(v, "offset"); err != nil {
		return nil, err
	}
	if q.Since, err = timeParam(v, "since"); err != nil {
		return nil, err
	}
	if q.Until, err = timeParam(v, "until"); err != nil {
		return nil, err
	}
	return q, nil
}

func intParam(v url.Values, key string) (int, error) {
	s := v.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, s)
	}
	return n, nil
}

func timeParam(v url.Values, key string) (*time.Time, error) {
	s := v.Get(key)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp, got %q", key, s)
	}
	return &t, nil
}
