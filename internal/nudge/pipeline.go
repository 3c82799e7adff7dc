package nudge

import (
	"golang.org/x/sync/errgroup"
)

// Options tune a run. The zero value rejects bad timestamps and classifies
// groups sequentially.
type Options struct {
	Timestamps TimestampPolicy

	// Workers > 1 classifies groups concurrently. Output order does not
	// depend on it.
	Workers int
}

// Summary counts what a run produced.
type Summary struct {
	Records      int `json:"records"`
	Groups       int `json:"groups"`
	Multiple     int `json:"multiple"`
	StartRows    int `json:"start_rows"`
	StopRows     int `json:"stop_rows"`
	DefaultStops int `json:"default_stops"`
	TransferOuts int `json:"transfer_outs"`
	Issues       int `json:"issues"`
}

// Result is the output of Process.
type Result struct {
	Header   []string
	Start    Table
	Stop     Table
	Outcomes []Outcome
	Issues   []Issue
	Summary  Summary
}

// Process runs the whole pipeline over one input table.
func Process(records []Record, opts Options) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	normalized, issues := NormalizeContacts(records)
	groups := GroupByEmail(normalized)

	// Header comes from the first record of the first group, which is the
	// first input record.
	first := groups[0].Records[0]
	if first.Len() == 0 {
		return nil, ErrNoHeader
	}
	header := OutputHeader(first)

	for _, g := range groups {
		if g.Email == "" {
			issues = append(issues, Issue{
				Kind:    IssueEmptyEmail,
				Line:    g.Records[0].Line,
				Field:   FieldEmail,
				Message: "records without an email were grouped together as one student",
			})
		}
	}

	outcomes := make([]Outcome, len(groups))
	groupIssues := make([][]Issue, len(groups))
	groupErrs := make([]error, len(groups))

	classify := func(i int) {
		outcomes[i], groupIssues[i], groupErrs[i] = Evaluate(groups[i], opts.Timestamps)
	}

	if opts.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for i := range groups {
			i := i
			g.Go(func() error {
				classify(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range groups {
			classify(i)
		}
	}

	// Report the earliest failing group so the error does not depend on
	// scheduling.
	for _, err := range groupErrs {
		if err != nil {
			return nil, err
		}
	}

	for _, iss := range groupIssues {
		issues = append(issues, iss...)
	}

	start, stop, err := Compose(header, outcomes)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Header:   header,
		Start:    start,
		Stop:     stop,
		Outcomes: outcomes,
		Issues:   issues,
	}
	res.Summary = summarize(len(records), res)
	return res, nil
}

// Evaluate selects and classifies a single group.
func Evaluate(g Group, policy TimestampPolicy) (Outcome, []Issue, error) {
	sorted, issues, err := SortByRecency(g.Records, policy)
	if err != nil {
		return Outcome{}, nil, err
	}
	auth := Authoritative(sorted)
	return Outcome{
		Group:         g,
		Sorted:        sorted,
		Authoritative: auth,
		Disposition:   Classify(g, auth),
	}, issues, nil
}

func summarize(records int, res *Result) Summary {
	s := Summary{
		Records:   records,
		Groups:    len(res.Outcomes),
		StartRows: len(res.Start.Rows),
		StopRows:  len(res.Stop.Rows),
		Issues:    len(res.Issues),
	}
	for _, o := range res.Outcomes {
		d := o.Disposition
		if d.Multiple {
			s.Multiple++
		}
		switch d.Basis {
		case BasisDefaultStop:
			s.DefaultStops++
		case BasisTransferOut:
			s.TransferOuts++
		}
	}
	return s
}
