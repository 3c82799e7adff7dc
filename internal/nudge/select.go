package nudge

import (
	"errors"
	"sort"
	"time"
)

// Status and workflow values that drive selection and classification.
const (
	StatusEntered   = "ENTERED"
	StatusComplete  = "COMPLETE"
	StatusCancelled = "CANCELLED"

	WorkflowEnterApplication = "Enter Application"
	StageIncomplete          = "INCOMPLETE"

	// RegionTransferOut marks an application transferred out of the region.
	// A student whose authoritative record carries it is always stopped.
	RegionTransferOut = "TQTOL"
)

// SortByRecency returns a copy of records ordered most recently modified
// first. Equal timestamps keep their input order.
//
// Under TimestampReject the first unparseable value aborts with a
// *TimestampError. Under TimestampSortLast such records go to the end and
// are reported as issues.
func SortByRecency(records []Record, policy TimestampPolicy) ([]Record, []Issue, error) {
	type keyed struct {
		rec   Record
		at    time.Time
		valid bool
	}

	items := make([]keyed, len(records))
	var issues []Issue

	for i, rec := range records {
		t, err := ParseTimestamp(rec.LastModified())
		if err != nil {
			if policy == TimestampReject {
				var te *TimestampError
				if errors.As(err, &te) {
					te.Line = rec.Line
					te.Email = rec.Email()
				}
				return nil, nil, err
			}
			issues = append(issues, Issue{
				Kind:    IssueTimestamp,
				Line:    rec.Line,
				Email:   rec.Email(),
				Field:   FieldLastModified,
				Value:   rec.LastModified(),
				Message: "unparseable last-modified time, sorted last",
			})
			items[i] = keyed{rec: rec}
			continue
		}
		items[i] = keyed{rec: rec, at: t, valid: true}
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].valid != items[b].valid {
			return items[a].valid
		}
		return items[a].at.After(items[b].at)
	})

	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out, issues, nil
}

// Authoritative picks the record that represents the student: the first
// open application (ENTERED / Enter Application) in recency order, falling
// back to the most recent record. sorted must be non-empty and in the order
// produced by SortByRecency.
func Authoritative(sorted []Record) Record {
	for _, rec := range sorted {
		if rec.StatusCode() == StatusEntered && rec.WorkflowStatus() == WorkflowEnterApplication {
			return rec
		}
	}
	return sorted[0]
}

// IsTransferOut reports whether rec carries the transfer-out region code.
func IsTransferOut(rec Record) bool {
	return rec.RegionCode() == RegionTransferOut
}
