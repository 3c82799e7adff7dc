package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JonMunkholm/nudge/internal/nudge"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues(OutcomeSuccess))
	ObserveRun(OutcomeSuccess, 50*time.Millisecond)

	if got := testutil.ToFloat64(RunsTotal.WithLabelValues(OutcomeSuccess)); got != before+1 {
		t.Errorf("runs_total{success} = %v, want %v", got, before+1)
	}
}

func TestObserveResult(t *testing.T) {
	start := testutil.ToFloat64(RowsWritten.WithLabelValues("start_nudge"))
	stop := testutil.ToFloat64(RowsWritten.WithLabelValues("stop_nudge"))
	phone := testutil.ToFloat64(IssuesTotal.WithLabelValues(string(nudge.IssuePhone)))
	defaults := testutil.ToFloat64(DefaultStops)

	ObserveResult(
		nudge.Summary{Records: 5, StartRows: 2, StopRows: 3, DefaultStops: 1},
		[]nudge.Issue{{Kind: nudge.IssuePhone}, {Kind: nudge.IssuePhone}},
		"start_nudge", "stop_nudge",
	)

	if got := testutil.ToFloat64(RowsWritten.WithLabelValues("start_nudge")); got != start+2 {
		t.Errorf("rows_written{start_nudge} = %v, want %v", got, start+2)
	}
	if got := testutil.ToFloat64(RowsWritten.WithLabelValues("stop_nudge")); got != stop+3 {
		t.Errorf("rows_written{stop_nudge} = %v, want %v", got, stop+3)
	}
	if got := testutil.ToFloat64(IssuesTotal.WithLabelValues(string(nudge.IssuePhone))); got != phone+2 {
		t.Errorf("issues_total{phone} = %v, want %v", got, phone+2)
	}
	if got := testutil.ToFloat64(DefaultStops); got != defaults+1 {
		t.Errorf("default_stops_total = %v, want %v", got, defaults+1)
	}
}
