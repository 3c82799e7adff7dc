package nudge

// staffHoldStatuses are workflow states awaiting manual staff review.
var staffHoldStatuses = map[string]bool{
	"Offered":             true,
	"Perform Assessment":  true,
	"Triage":              true,
	"Potential Duplicate": true,
}

// startingSubmissionMethods are the channels where the student completes
// the application themselves.
var startingSubmissionMethods = map[string]bool{
	"Online Application":                   true,
	"Staff Commenced - Student Progressed": true,
}

// withdrawnWorkflows close an application that is still ENTERED.
var withdrawnWorkflows = map[string]bool{
	"Cancelled": true,
	"Withdrawn": true,
}

// closedStatuses close an application outright.
var closedStatuses = map[string]bool{
	StatusCancelled: true,
	StatusComplete:  true,
}

// Basis records which rule decided a disposition.
type Basis string

const (
	BasisStarting    Basis = "starting"
	BasisStopping    Basis = "stopping"
	BasisDefaultStop Basis = "default-stop"
	BasisTransferOut Basis = "transfer-out"
)

// Disposition is the classification of one student group.
type Disposition struct {
	Start    bool
	Stop     bool
	Multiple bool
	Basis    Basis
}

// Flags renders the disposition as the START, STOP, MULTIPLE output columns.
func (d Disposition) Flags() []string {
	return []string{yn(d.Start), yn(d.Stop), yn(d.Multiple)}
}

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// IsStaffHold reports whether any ENTERED record is waiting on staff.
func IsStaffHold(records []Record) bool {
	for _, rec := range records {
		if rec.StatusCode() == StatusEntered && staffHoldStatuses[rec.WorkflowStatus()] {
			return true
		}
	}
	return false
}

// IsStarting reports whether the student has a self-service application
// left incomplete that should be nudged to finish. A COMPLETE record anywhere
// in the group vetoes it.
func IsStarting(records []Record) bool {
	if IsStaffHold(records) {
		return false
	}
	for _, rec := range records {
		if rec.StatusCode() == StatusComplete {
			return false
		}
	}
	for _, rec := range records {
		if startingSubmissionMethods[rec.SubmissionMethod()] &&
			rec.StatusCode() == StatusEntered &&
			rec.WorkflowStatus() == WorkflowEnterApplication &&
			rec.WorkflowStage() == StageIncomplete &&
			rec.Suppression() == "N" &&
			rec.OnHold() != "Y" {
			return true
		}
	}
	return false
}

// IsStopping reports whether the student should explicitly stop receiving
// start nudges: the group is not starting and has a staff hold, a cancelled
// or withdrawn application, or a closed one.
func IsStopping(records []Record) bool {
	if IsStarting(records) {
		return false
	}
	if IsStaffHold(records) {
		return true
	}
	for _, rec := range records {
		if rec.StatusCode() == StatusEntered && withdrawnWorkflows[rec.WorkflowStatus()] {
			return true
		}
		if closedStatuses[rec.StatusCode()] {
			return true
		}
	}
	return false
}

// Classify computes the disposition for a group whose authoritative record
// has already been selected.
//
// A group that is neither starting nor stopping is stopped by default and
// tagged BasisDefaultStop. A transfer-out authoritative record overrides
// everything else.
func Classify(g Group, authoritative Record) Disposition {
	starting := IsStarting(g.Records)
	stopping := IsStopping(g.Records)

	d := Disposition{Multiple: g.Multiple()}
	d.Stop = stopping || !starting
	d.Start = starting && !d.Stop

	switch {
	case d.Start:
		d.Basis = BasisStarting
	case stopping:
		d.Basis = BasisStopping
	default:
		d.Basis = BasisDefaultStop
	}

	if IsTransferOut(authoritative) {
		d.Start = false
		d.Stop = true
		d.Basis = BasisTransferOut
	}

	return d
}
