// Package session owns the stdio request/reply loop.
//
// Ownership boundary:
// - startup announcement
// - request line -> payload -> analyzer -> Completed sequencing
// - the per-request output sink and its flush boundary
// - fatal error classification and exit codes
//
// One request is in flight at a time. The loop never reads the next request
// line until the previous request's Completed reply has been flushed.
package session
