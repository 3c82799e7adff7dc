package nudge

import (
	"reflect"
	"testing"
)

func TestNewRecord(t *testing.T) {
	tests := []struct {
		name       string
		names      []string
		values     []string
		wantValues []string
	}{
		{
			name:       "exact",
			names:      []string{"a", "b"},
			values:     []string{"1", "2"},
			wantValues: []string{"1", "2"},
		},
		{
			name:       "short row padded",
			names:      []string{"a", "b", "c"},
			values:     []string{"1"},
			wantValues: []string{"1", "", ""},
		},
		{
			name:       "long row truncated",
			names:      []string{"a"},
			values:     []string{"1", "2"},
			wantValues: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord(3, tt.names, tt.values)
			if got := r.Values(); !reflect.DeepEqual(got, tt.wantValues) {
				t.Errorf("Values() = %v, want %v", got, tt.wantValues)
			}
			if got := r.Names(); !reflect.DeepEqual(got, tt.names) {
				t.Errorf("Names() = %v, want %v", got, tt.names)
			}
			if r.Line != 3 {
				t.Errorf("Line = %d, want 3", r.Line)
			}
		})
	}
}

func TestRecord_WithDoesNotMutate(t *testing.T) {
	orig := NewRecord(1, []string{"a", "b"}, []string{"1", "2"})
	changed := orig.With("b", "x")

	if orig.Value("b") != "2" {
		t.Errorf("original mutated: b = %q", orig.Value("b"))
	}
	if changed.Value("b") != "x" {
		t.Errorf("changed b = %q, want %q", changed.Value("b"), "x")
	}
}

func TestRecord_WithUnknownFieldKeepsColumns(t *testing.T) {
	orig := NewRecord(1, []string{"a"}, []string{"1"})
	changed := orig.With("missing", "x")

	if changed.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", changed.Len())
	}
	if changed.Has("missing") {
		t.Error("With added a field that was not in the header")
	}
}

func TestRecord_Accessors(t *testing.T) {
	r := rec(1, map[string]string{
		FieldEmail:          "a@x.com",
		FieldStatusCode:     StatusEntered,
		FieldRegionCode:     RegionTransferOut,
		FieldLastModified:   "01/02/2024 10:00",
		FieldWorkflowStatus: "Triage",
	})

	if r.Email() != "a@x.com" {
		t.Errorf("Email() = %q", r.Email())
	}
	if r.StatusCode() != StatusEntered {
		t.Errorf("StatusCode() = %q", r.StatusCode())
	}
	if r.RegionCode() != RegionTransferOut {
		t.Errorf("RegionCode() = %q", r.RegionCode())
	}
	if r.WorkflowStatus() != "Triage" {
		t.Errorf("WorkflowStatus() = %q", r.WorkflowStatus())
	}
	if r.Value("NotAColumn") != "" {
		t.Error("Value() of unknown field should be empty")
	}
}
