// Package history stores completed nudge runs so their output files can be
// listed and downloaded after the request that produced them.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/nudge/internal/nudge"
)

// Output table names used in download URLs.
const (
	TableStart = "start_nudge"
	TableStop  = "stop_nudge"
)

var (
	// ErrNotFound is returned when no run has the requested ID.
	ErrNotFound = errors.New("run not found")

	// ErrUnknownTable is returned for a table name other than TableStart or TableStop.
	ErrUnknownTable = errors.New("unknown table")
)

// Run is one processed export and its two output files.
type Run struct {
	ID              string        `json:"id"`
	FileName        string        `json:"file_name"`
	CreatedAt       time.Time     `json:"created_at"`
	TimestampPolicy string        `json:"timestamp_policy"`
	Bytes           int64         `json:"bytes"`
	Summary         nudge.Summary `json:"summary"`
	Issues          []nudge.Issue `json:"issues,omitempty"`

	StartCSV []byte `json:"-"`
	StopCSV  []byte `json:"-"`
}

// File returns the download name and body of the named output table.
func (r *Run) File(table string) (string, []byte, error) {
	switch table {
	case TableStart:
		return nudge.StartFileName, r.StartCSV, nil
	case TableStop:
		return nudge.StopFileName, r.StopCSV, nil
	default:
		return "", nil, ErrUnknownTable
	}
}

// Header returns a copy of r without the CSV bodies.
func (r *Run) Header() Run {
	h := *r
	h.StartCSV = nil
	h.StopCSV = nil
	return h
}

// Store persists runs.
//
// List returns the newest runs first, without CSV bodies.
type Store interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context, limit int) ([]Run, error)
}
