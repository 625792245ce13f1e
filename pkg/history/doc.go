// Package history defines the analysis history: an audit trail of every
// ingredient list the API evaluated and the verdict it returned.
//
// # Components
//
//   - Record: one evaluated ingredient list and its assessment
//   - Query: filters, ordering and pagination over records
//   - Storage: persistence contract implemented by history/storage
//   - history/recorder: asynchronous, non-blocking writer used by the API
//   - history/retention: age and count based pruning on a cron schedule
//   - history/export: CSV and JSON exporters for offline review
//
// History is disabled by default. When enabled, analyses are recorded
// after the response verdict is computed and never delay or fail the
// request: a full queue or a failing backend drops the record and logs it.
//
// # Identity
//
// Each record carries a UUID v4 ID, the request ID of the HTTP call that
// produced it, and a SHA-256 hash of the normalized, sorted ingredient
// list so identical lists can be grouped regardless of order or case.
package history
