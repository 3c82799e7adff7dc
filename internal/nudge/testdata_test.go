package nudge

var testHeader = []string{
	FieldEmail,
	FieldPhone,
	FieldStatusCode,
	FieldWorkflowStatus,
	FieldWorkflowStage,
	FieldSubmissionMethod,
	FieldRegionCode,
	FieldSuppression,
	FieldOnHold,
	FieldLastModified,
	"Location",
	"CourseCode",
	"CourseTitle",
	"Notes",
}

// rec builds a record over testHeader from the given fields.
func rec(line int, fields map[string]string) Record {
	values := make([]string, len(testHeader))
	for i, name := range testHeader {
		values[i] = fields[name]
	}
	return NewRecord(line, testHeader, values)
}

// startingRec returns a record that satisfies every starting condition.
func startingRec(line int, email, modified string) Record {
	return rec(line, map[string]string{
		FieldEmail:            email,
		FieldStatusCode:       StatusEntered,
		FieldWorkflowStatus:   WorkflowEnterApplication,
		FieldWorkflowStage:    StageIncomplete,
		FieldSubmissionMethod: "Online Application",
		FieldSuppression:      "N",
		FieldOnHold:           "N",
		FieldLastModified:     modified,
		"Location":            "Brisbane",
		"CourseCode":          "BSB50120",
		"CourseTitle":         "Diploma of Business",
	})
}

// withField returns r with one field changed.
func withField(r Record, name, value string) Record {
	return r.With(name, value)
}
