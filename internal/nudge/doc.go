// Package nudge classifies students into start and stop nudge lists from an
// export of enrolment application records.
//
// The package is pure: it performs no I/O and keeps no state between calls.
// Callers decode a CSV export into [Record] values (see package ingest), hand
// them to [Process], and encode the two resulting tables.
//
// # Pipeline
//
//  1. Contact normalization: phone numbers are rewritten to E.164 with the
//     Australian "+61" prefix shortened to "61" ([NormalizeContacts]).
//  2. Grouping: records are partitioned by StudentPreferredEmail ([GroupByEmail]).
//  3. Selection: each group is sorted most-recent-first and an authoritative
//     record is chosen ([SortByRecency], [Authoritative]).
//  4. Classification: staff-hold, starting and stopping predicates are
//     evaluated over the whole group ([Classify]).
//  5. Composition: the start and stop tables are built, collapsing students
//     with several applications to one redacted row ([Compose]).
//
// # Default to stop
//
// A group that is neither explicitly starting nor explicitly stopping is
// still placed on the stop list. Such decisions carry [BasisDefaultStop] so
// they can be counted and reviewed.
package nudge
