// Package health provides the liveness, readiness and version endpoints of
// the API.
//
// # Endpoints
//
//   - /api/health: liveness, always 200 while the process serves requests
//   - /api/ready: readiness, runs every registered check; 200 or 503
//   - /api/version: build information
//
// # Usage
//
//	checker := health.New(2 * time.Second)
//	checker.Register("catalog", health.CatalogCheck(engine))
//	checker.Register("history", health.PingCheck(store))
//
//	mux.HandleFunc("/api/health", checker.LivenessHandler("Skincare Ingredient Scout API"))
//	mux.HandleFunc("/api/ready", checker.ReadinessHandler())
//
// Readiness checks run concurrently, each bounded by the checker timeout. A
// single failing check reports the service as degraded.
package health
