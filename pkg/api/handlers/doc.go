// Package handlers implements the HTTP endpoints of the scout API.
//
// Endpoints:
//
//	POST /api/analyze   evaluate an ingredient list
//	GET  /api/history   list recorded analyses
//	GET  /              static front-end files
//
// Health, readiness and version endpoints live in pkg/telemetry/health.
package handlers
