package nudge

// Column names read by the classifier. Any other column is carried through
// to the output untouched.
const (
	FieldEmail            = "StudentPreferredEmail"
	FieldPhone            = "StudentPreferredPhone"
	FieldStatusCode       = "ApplicationStatusCode"
	FieldWorkflowStatus   = "WorkflowStatus"
	FieldWorkflowStage    = "WorkflowStage"
	FieldSubmissionMethod = "SubmissionMethod"
	FieldRegionCode       = "RegionCode"
	FieldSuppression      = "StuCommSuppressFg"
	FieldOnHold           = "ApplicationOnHold"
	FieldLastModified     = "ApplicationLastModifiedDateTime"
)

// Record is one application row. Field order follows the input header and is
// preserved on output.
//
// Records are values: methods that change a field return a copy.
type Record struct {
	// Line is the 1-based line number in the source file, 0 if unknown.
	Line int

	names  []string
	values []string
	index  map[string]int
}

// NewRecord builds a record from parallel name/value slices. Missing values
// are treated as empty; surplus values are dropped.
func NewRecord(line int, names, values []string) Record {
	r := Record{
		Line:   line,
		names:  make([]string, len(names)),
		values: make([]string, len(names)),
		index:  make(map[string]int, len(names)),
	}
	copy(r.names, names)
	copy(r.values, values)
	for i, n := range names {
		if _, dup := r.index[n]; !dup {
			r.index[n] = i
		}
	}
	return r
}

// Names returns the field names in input order.
func (r Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Values returns the field values in input order.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.names) }

// Get returns the value of a field and whether the field exists.
func (r Record) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Value returns the value of a field, or "" when the field is absent.
func (r Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Has reports whether the record has the named field.
func (r Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// With returns a copy of r with the named field set to value. Setting a field
// the record does not have returns r unchanged so that output columns always
// match the header.
func (r Record) With(name, value string) Record {
	i, ok := r.index[name]
	if !ok {
		return r
	}
	out := r
	out.values = make([]string, len(r.values))
	copy(out.values, r.values)
	out.values[i] = value
	return out
}

func (r Record) Email() string            { return r.Value(FieldEmail) }
func (r Record) Phone() string            { return r.Value(FieldPhone) }
func (r Record) StatusCode() string       { return r.Value(FieldStatusCode) }
func (r Record) WorkflowStatus() string   { return r.Value(FieldWorkflowStatus) }
func (r Record) WorkflowStage() string    { return r.Value(FieldWorkflowStage) }
func (r Record) SubmissionMethod() string { return r.Value(FieldSubmissionMethod) }
func (r Record) RegionCode() string       { return r.Value(FieldRegionCode) }
func (r Record) Suppression() string      { return r.Value(FieldSuppression) }
func (r Record) OnHold() string           { return r.Value(FieldOnHold) }
func (r Record) LastModified() string     { return r.Value(FieldLastModified) }
