// Package recorder writes analysis history asynchronously.
//
// The API handler calls Record after computing a verdict. Record builds a
// history.Record (UUID v4 ID, ingredient hash, assessment details) and
// queues it; a single worker writes queued records to storage. Record
// waits at most the configured write timeout for queue space and never
// waits on storage itself. Close stops accepting records and drains the
// queue.
package recorder
