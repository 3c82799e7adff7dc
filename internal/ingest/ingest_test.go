package ingest

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/JonMunkholm/nudge/internal/nudge"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{name: "plain", input: []byte("a,b\n1,2\n"), expected: "a,b\n1,2\n"},
		{name: "with BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, "a,b"...), expected: "a,b"},
		{name: "only BOM", input: []byte{0xEF, 0xBB, 0xBF}, expected: ""},
		{name: "short input", input: []byte("a"), expected: "a"},
		{name: "empty", input: []byte{}, expected: ""},
		{name: "invalid byte replaced", input: []byte("caf\xff,x"), expected: "caf?,x"},
		{name: "valid multibyte kept", input: []byte("café,ü"), expected: "café,ü"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(Wrap(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWrap_SplitMultibyte(t *testing.T) {
	// One byte per Read splits every multi-byte rune across reads.
	input := "naïve,日本\n"
	r := Wrap(iotest.OneByteReader(strings.NewReader(input)))

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != input {
		t.Errorf("got %q, want %q", got, input)
	}
	if r.N != int64(len(input)) {
		t.Errorf("N = %d, want %d", r.N, len(input))
	}
}

func TestDecode(t *testing.T) {
	input := "\xEF\xBB\xBFStudentPreferredEmail,Notes\r\n" +
		"a@x.com,\"hello, world\"\r\n" +
		"\r\n" +
		",\r\n" +
		"b@x.com\r\n" +
		"c@x.com,x,extra\r\n"

	in, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(in.Header) != 2 || in.Header[0] != nudge.FieldEmail {
		t.Fatalf("Header = %v", in.Header)
	}
	if len(in.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(in.Records))
	}

	first := in.Records[0]
	if first.Value("Notes") != "hello, world" {
		t.Errorf("Notes = %q", first.Value("Notes"))
	}
	if first.Line != 2 {
		t.Errorf("first.Line = %d, want 2", first.Line)
	}

	if got := in.Records[1].Value("Notes"); got != "" {
		t.Errorf("short row Notes = %q, want empty", got)
	}
	if in.Records[2].Len() != 2 {
		t.Errorf("long row has %d fields, want 2", in.Records[2].Len())
	}

	wantKinds := []nudge.IssueKind{nudge.IssueBlankRow, nudge.IssueRaggedRow, nudge.IssueRaggedRow}
	if len(in.Issues) != len(wantKinds) {
		t.Fatalf("got %d issues, want %d: %v", len(in.Issues), len(wantKinds), in.Issues)
	}
	for i, iss := range in.Issues {
		if iss.Kind != wantKinds[i] {
			t.Errorf("issue %d kind = %q, want %q", i, iss.Kind, wantKinds[i])
		}
	}
}

func TestDecode_BlankRowsReported(t *testing.T) {
	input := "StudentPreferredEmail,Notes,ApplicationLastModifiedDateTime\r\n" +
		"a@x.com,x,01/02/2024 10:00\r\n" +
		",,\r\n" +
		"\r\n" +
		" , ,\r\n"

	in, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(in.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(in.Records))
	}

	var lines []int
	for _, iss := range in.Issues {
		if iss.Kind != nudge.IssueBlankRow {
			t.Errorf("issue kind = %q, want %q", iss.Kind, nudge.IssueBlankRow)
		}
		lines = append(lines, iss.Line)
	}
	if len(lines) != 2 || lines[0] != 3 || lines[1] != 5 {
		t.Errorf("blank row issues on lines %v, want [3 5]", lines)
	}
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Decode(\"\") error = %v, want ErrEmptyFile", err)
	}
}

func TestDecode_HeaderOnly(t *testing.T) {
	in, err := Decode(strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(in.Records) != 0 {
		t.Errorf("got %d records, want 0", len(in.Records))
	}
}

func TestEncode(t *testing.T) {
	tbl := nudge.Table{
		Header: []string{"A", "START"},
		Rows: [][]string{
			{"x, y", "Y"},
			{"plain", "N"},
		},
	}

	got, err := Encode(tbl)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := "A,START\r\n\"x, y\",Y\r\nplain,N\r\n"
	if string(got) != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestRoundTrip_UnknownFieldsPreserved(t *testing.T) {
	input := "StudentPreferredEmail,ApplicationStatusCode,ApplicationLastModifiedDateTime,Custom Field\r\n" +
		"a@x.com,CANCELLED,01/02/2024 10:00,keep me\r\n"

	in, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	res, err := nudge.Process(in.Records, nudge.Options{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	out, err := Encode(res.Stop)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := "StudentPreferredEmail,ApplicationStatusCode,ApplicationLastModifiedDateTime,Custom Field,START,STOP,MULTIPLE\r\n" +
		"a@x.com,CANCELLED,01/02/2024 10:00,keep me,N,Y,N\r\n"
	if string(out) != want {
		t.Errorf("stop table = %q, want %q", out, want)
	}
}

func TestLimitReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int64
		wantErr bool
	}{
		{name: "under limit", input: "abc", limit: 10},
		{name: "exact limit", input: "abcd", limit: 4},
		{name: "over limit", input: "abcde", limit: 4, wantErr: true},
		{name: "disabled", input: "abcdef", limit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(LimitReader(strings.NewReader(tt.input), tt.limit))
			if tt.wantErr {
				if !errors.Is(err, ErrFileTooLarge) {
					t.Fatalf("error = %v, want ErrFileTooLarge", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.input {
				t.Errorf("got %q, want %q", got, tt.input)
			}
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	input := "StudentPreferredEmail\n" + strings.Repeat("someone@example.com\n", 100)

	_, err := Decode(LimitReader(strings.NewReader(input), 64))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Decode() error = %v, want ErrFileTooLarge", err)
	}
	if !errors.Is(err, ErrInvalidCSV) {
		t.Errorf("Decode() error = %v, want ErrInvalidCSV in chain", err)
	}
}
