package nudge

import "errors"

var (
	// ErrNoRecords is returned when the input contains no data rows.
	ErrNoRecords = errors.New("no records in input")

	// ErrNoHeader is returned when the first record has no fields, so the
	// output header cannot be derived.
	ErrNoHeader = errors.New("first record has no fields")

	// ErrConflictingDisposition is returned if a group is marked both start
	// and stop. Classify never produces this; Compose checks it anyway.
	ErrConflictingDisposition = errors.New("disposition marks both start and stop")
)

// IssueKind categorizes recoverable problems found during a run.
type IssueKind string

const (
	IssuePhone      IssueKind = "phone"
	IssueEmptyEmail IssueKind = "empty_email"
	IssueTimestamp  IssueKind = "timestamp"
	IssueRaggedRow  IssueKind = "ragged_row"
	IssueBlankRow   IssueKind = "blank_row"
)

// Issue is a recoverable per-record problem. The record is still processed.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Line    int       `json:"line,omitempty"`
	Email   string    `json:"email,omitempty"`
	Field   string    `json:"field,omitempty"`
	Value   string    `json:"value,omitempty"`
	Message string    `json:"message"`
}
