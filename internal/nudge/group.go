package nudge

// Group holds every application record for one student email.
type Group struct {
	Email   string
	Records []Record // input order
}

// Multiple reports whether the student has more than one application.
func (g Group) Multiple() bool { return len(g.Records) > 1 }

// GroupByEmail partitions records by StudentPreferredEmail. Groups are
// returned in order of first appearance and records keep their input order.
//
// Records without an email are grouped together under "". That group is
// almost never meaningful; Process reports it as an issue.
func GroupByEmail(records []Record) []Group {
	pos := make(map[string]int)
	var groups []Group

	for _, rec := range records {
		email := rec.Email()
		i, ok := pos[email]
		if !ok {
			i = len(groups)
			pos[email] = i
			groups = append(groups, Group{Email: email})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}

	return groups
}
