package nudge

import "fmt"

// Output file names handed to the egress side.
const (
	StartFileName = "start_nudge.csv"
	StopFileName  = "stop_nudge.csv"
)

// Flag column names appended to every output row.
const (
	ColumnStart    = "START"
	ColumnStop     = "STOP"
	ColumnMultiple = "MULTIPLE"
)

// redactedFields are course and assignment details that are meaningless
// once several applications are collapsed into one row.
var redactedFields = []string{
	"Location",
	"CourseCode",
	"CourseVersion",
	"CourseTitle",
	"AttendanceMode",
	"StudyMode",
	"AssignedUser",
	FieldOnHold,
}

// Table is a header plus rows of string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Outcome is the per-group result of selection and classification.
type Outcome struct {
	Group         Group
	Sorted        []Record // most recent first
	Authoritative Record
	Disposition   Disposition
}

// OutputHeader returns the shared header of both tables: first's field names
// followed by the flag columns.
func OutputHeader(first Record) []string {
	return append(first.Names(), ColumnStart, ColumnStop, ColumnMultiple)
}

// Redact blanks the course and assignment fields present on rec.
func Redact(rec Record) Record {
	for _, f := range redactedFields {
		rec = rec.With(f, "")
	}
	return rec
}

// Compose builds the start and stop tables. Students with several
// applications contribute one redacted row built from their authoritative
// record; students with one application contribute it as-is. Every row
// carries the group's flags.
func Compose(header []string, outcomes []Outcome) (start, stop Table, err error) {
	start = Table{Header: header}
	stop = Table{Header: header}

	for _, o := range outcomes {
		d := o.Disposition
		if d.Start && d.Stop {
			return Table{}, Table{}, fmt.Errorf("group %q: %w", o.Group.Email, ErrConflictingDisposition)
		}
		if !d.Start && !d.Stop {
			continue
		}

		var rows [][]string
		if d.Multiple {
			rows = [][]string{outputRow(Redact(o.Authoritative), d)}
		} else {
			rows = make([][]string, 0, len(o.Sorted))
			for _, rec := range o.Sorted {
				rows = append(rows, outputRow(rec, d))
			}
		}

		if d.Start {
			start.Rows = append(start.Rows, rows...)
		}
		if d.Stop {
			stop.Rows = append(stop.Rows, rows...)
		}
	}

	return start, stop, nil
}

func outputRow(rec Record, d Disposition) []string {
	return append(rec.Values(), d.Flags()...)
}
