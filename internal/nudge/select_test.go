package nudge

import (
	"errors"
	"testing"
)

func TestGroupByEmail(t *testing.T) {
	records := []Record{
		rec(2, map[string]string{FieldEmail: "b@x.com"}),
		rec(3, map[string]string{FieldEmail: "a@x.com"}),
		rec(4, map[string]string{FieldEmail: "b@x.com"}),
		rec(5, map[string]string{FieldEmail: ""}),
	}

	groups := GroupByEmail(records)

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	wantOrder := []string{"b@x.com", "a@x.com", ""}
	for i, want := range wantOrder {
		if groups[i].Email != want {
			t.Errorf("groups[%d].Email = %q, want %q", i, groups[i].Email, want)
		}
	}
	if len(groups[0].Records) != 2 || groups[0].Records[0].Line != 2 || groups[0].Records[1].Line != 4 {
		t.Errorf("b@x.com records not in input order: %+v", groups[0].Records)
	}
	if !groups[0].Multiple() || groups[1].Multiple() {
		t.Error("Multiple() wrong")
	}
}

func TestSortByRecency(t *testing.T) {
	records := []Record{
		rec(2, map[string]string{FieldLastModified: "01/02/2024 10:00"}),
		rec(3, map[string]string{FieldLastModified: "02/02/2024 09:00"}),
		rec(4, map[string]string{FieldLastModified: "01/02/2024 10:00"}),
		rec(5, map[string]string{FieldLastModified: "15/01/2024 08:30"}),
	}

	sorted, issues, err := SortByRecency(records, TimestampReject)
	if err != nil {
		t.Fatalf("SortByRecency() error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("unexpected issues: %v", issues)
	}

	wantLines := []int{3, 2, 4, 5}
	for i, want := range wantLines {
		if sorted[i].Line != want {
			t.Errorf("sorted[%d].Line = %d, want %d", i, sorted[i].Line, want)
		}
	}
	if records[0].Line != 2 {
		t.Error("SortByRecency reordered its input")
	}
}

func TestSortByRecency_Reject(t *testing.T) {
	records := []Record{
		rec(2, map[string]string{FieldEmail: "a@x.com", FieldLastModified: "01/02/2024 10:00"}),
		rec(3, map[string]string{FieldEmail: "a@x.com", FieldLastModified: "yesterday"}),
	}

	_, _, err := SortByRecency(records, TimestampReject)
	var te *TimestampError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TimestampError", err)
	}
	if te.Line != 3 || te.Email != "a@x.com" || te.Value != "yesterday" {
		t.Errorf("unexpected TimestampError: %+v", te)
	}
}

func TestSortByRecency_SortLast(t *testing.T) {
	records := []Record{
		rec(2, map[string]string{FieldLastModified: "bad"}),
		rec(3, map[string]string{FieldLastModified: "01/02/2024 10:00"}),
		rec(4, map[string]string{FieldLastModified: ""}),
		rec(5, map[string]string{FieldLastModified: "03/02/2024 10:00"}),
	}

	sorted, issues, err := SortByRecency(records, TimestampSortLast)
	if err != nil {
		t.Fatalf("SortByRecency() error = %v", err)
	}
	wantLines := []int{5, 3, 2, 4}
	for i, want := range wantLines {
		if sorted[i].Line != want {
			t.Errorf("sorted[%d].Line = %d, want %d", i, sorted[i].Line, want)
		}
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	for _, iss := range issues {
		if iss.Kind != IssueTimestamp {
			t.Errorf("issue kind = %q, want %q", iss.Kind, IssueTimestamp)
		}
	}
}

func TestAuthoritative(t *testing.T) {
	open := startingRec(2, "a@x.com", "01/02/2024 10:00")
	complete := rec(3, map[string]string{
		FieldEmail:        "a@x.com",
		FieldStatusCode:   StatusComplete,
		FieldLastModified: "02/02/2024 09:00",
	})
	olderOpen := startingRec(4, "a@x.com", "01/01/2024 10:00")

	tests := []struct {
		name     string
		sorted   []Record
		wantLine int
	}{
		{name: "open application preferred over newer closed one", sorted: []Record{complete, open, olderOpen}, wantLine: 2},
		{name: "first open in recency order", sorted: []Record{open, olderOpen}, wantLine: 2},
		{name: "falls back to most recent", sorted: []Record{complete}, wantLine: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authoritative(tt.sorted); got.Line != tt.wantLine {
				t.Errorf("Authoritative().Line = %d, want %d", got.Line, tt.wantLine)
			}
		})
	}
}
