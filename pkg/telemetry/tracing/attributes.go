package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ingredient-scout/scout/pkg/conflict"
)

// Span names.
const (
	SpanAssess = "conflict.assess"
)

// Attribute keys. HTTP keys follow the OpenTelemetry conventions; the rest
// use the scout.* namespace.
const (
	AttrHTTPMethod     = "http.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.status_code"

	AttrRequestID        = "scout.request_id"
	AttrIngredientsCount = "scout.ingredients.count"
	AttrStatus           = "scout.status"
	AttrRiskScore        = "scout.risk_score"
	AttrRule             = "scout.rule"
	AttrKeywordHits      = "scout.keyword_hits"
	AttrEngine           = "scout.engine"
	AttrCatalogVersion   = "scout.catalog.version"
)

// SetAssessmentAttributes describes an engine assessment on span. The rule
// attribute is omitted when no pair rule matched.
func SetAssessmentAttributes(span trace.Span, ingredients int, a conflict.Assessment) {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrIngredientsCount, ingredients),
		attribute.String(AttrStatus, string(a.Status)),
		attribute.Int(AttrRiskScore, a.RiskScore),
		attribute.Int(AttrKeywordHits, len(a.KeywordHits)),
		attribute.String(AttrEngine, a.Engine),
		attribute.String(AttrCatalogVersion, a.CatalogVersion),
	}
	if a.MatchedRule != "" {
		attrs = append(attrs, attribute.String(AttrRule, string(a.MatchedRule)))
	}
	span.SetAttributes(attrs...)
}
