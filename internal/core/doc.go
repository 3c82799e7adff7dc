// Package core runs nudge classification for the web server and the CLI.
//
// A [Service] accepts one exported CSV at a time:
//
//  1. The upload is size-limited and decoded by package ingest.
//  2. Records are classified by [nudge.Process].
//  3. The start and stop tables are encoded as CSV.
//  4. The run is saved to a [history.Store] under a new UUID.
//
// Concurrency is bounded by a [RunLimiter]. Technical errors are mapped to
// coded messages for staff with [MapError]:
//
//   - NDG001-NDG004: input content (timestamps, empty exports)
//   - FILE001-FILE005: upload handling
//   - RUN001-RUN005: run lifecycle
//   - DB001-DB003: history storage
package core
