// Package types defines the JSON bodies of the HTTP API.
//
// Requests:
//
//	POST /api/analyze
//	{"ingredients": ["retinol", "glycolic acid"]}
//
// Responses:
//
//	200 {"status": "danger", "riskScore": 70, "summary": "..."}
//	400 {"error": "Ingredients must be a non-empty list"}
//	500 {"error": "Internal server error", "message": "..."}
//
// Every error body has an "error" field holding one of the Msg*
// constants. "message" carries detail only for internal errors.
package types
