package types

import (
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/history"
)

// AnalyzeResponse is the body of a successful POST /api/analyze. It is
// exactly the engine verdict.
type AnalyzeResponse = conflict.Verdict

// HistoryResponse is the body of GET /api/history.
type HistoryResponse struct {
	Records []*history.Record `json:"records" yaml:"records"`
	Total   int64             `json:"total" yaml:"total"`
	Limit   int               `json:"limit" yaml:"limit"`
	Offset  int               `json:"offset" yaml:"offset"`
}
