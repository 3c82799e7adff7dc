// Package ingest converts between CSV bytes and nudge records and tables.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/nudge/internal/nudge"
)

var (
	// ErrEmptyFile is returned when the input has no header row.
	ErrEmptyFile = errors.New("empty file: no header row")

	// ErrInvalidCSV wraps decoder failures.
	ErrInvalidCSV = errors.New("invalid csv")
)

// Input is a decoded export.
type Input struct {
	Header  []string
	Records []nudge.Record
	Issues  []nudge.Issue
	Bytes   int64
}

// Decode reads a header row followed by data rows. Empty lines are skipped
// silently. Rows whose cells are all blank, such as the trailing ",,,," rows
// spreadsheets export, are skipped and reported as issues. Rows with fewer or more cells than the header are padded
// or truncated to it and reported as issues.
func Decode(r io.Reader) (*Input, error) {
	counter := Wrap(r)

	cr := csv.NewReader(counter)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrInvalidCSV, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	in := &Input{Header: header}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
		}

		line, _ := cr.FieldPos(0)
		if blank(row) {
			in.Issues = append(in.Issues, nudge.Issue{
				Kind:    nudge.IssueBlankRow,
				Line:    line,
				Message: "row has no values and was skipped",
			})
			continue
		}

		if len(row) != len(header) {
			in.Issues = append(in.Issues, nudge.Issue{
				Kind:    nudge.IssueRaggedRow,
				Line:    line,
				Message: fmt.Sprintf("row has %d columns, header has %d", len(row), len(header)),
			})
		}
		in.Records = append(in.Records, nudge.NewRecord(line, header, row))
	}

	in.Bytes = counter.N
	return in, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Encode writes t as CSV with CRLF line endings.
func Encode(t nudge.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes t to w as CSV with CRLF line endings.
func EncodeTo(w io.Writer, t nudge.Table) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
