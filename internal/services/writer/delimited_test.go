package writer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
)

func TestQuotingEncoder(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{name: "plain fields", record: []string{"a", "0", "1"}, want: "a;0;1\n"},
		{name: "delimiter", record: []string{"a;b", "1"}, want: "'a;b';1\n"},
		{name: "quote doubled", record: []string{"it's", "1"}, want: "'it''s';1\n"},
		{name: "line break", record: []string{"a\nb", "1"}, want: "'a\nb';1\n"},
		{name: "double quote is plain", record: []string{`"x"`}, want: "\"x\"\n"},
		{name: "empty field", record: []string{"", "0"}, want: ";0\n"},
		{name: "leading space", record: []string{" a", "1"}, want: "' a';1\n"},
		{name: "leading tab", record: []string{"\ta", "1"}, want: "'\ta';1\n"},
		{name: "trailing space is plain", record: []string{"a ", "1"}, want: "a ;1\n"},
		{name: "end-of-data marker", record: []string{`\.`}, want: "'\\.'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := newRowEncoder(&buf, ';', '\'')
			if err := enc.Write(tt.record); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			enc.Flush()
			if err := enc.Error(); err != nil {
				t.Fatalf("Flush() error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestQuotingEncoder_SurfacesWriteErrors(t *testing.T) {
	enc := newRowEncoder(failingWriter{}, ',', '\'')
	_ = enc.Write([]string{"a", "b"})
	enc.Flush()

	if err := enc.Error(); err == nil || err.Error() != "disk full" {
		t.Fatalf("Error() = %v, want disk full", err)
	}
	if err := enc.Write([]string{"c"}); err == nil {
		t.Fatal("expected Write() to keep failing after an error")
	}
}

func TestStandardEncoderUsesDelimiter(t *testing.T) {
	var buf bytes.Buffer
	enc := newRowEncoder(&buf, '\t', '"')
	if err := enc.Write([]string{"a b", "c\td"}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	enc.Flush()

	if want := "a b\t\"c\td\"\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestQuotingEncoder_MatchesEncodingCSV(t *testing.T) {
	records := [][]string{
		{"plain", "0", "1"},
		{"doe, jane", "1"},
		{`say "hi"`, "0"},
		{"two\nlines", "1"},
		{"cr\rhere", "0"},
		{" leading", "trailing "},
		{"\tindent", ""},
		{`\.`, `\.x`},
		{"", ""},
	}

	var want bytes.Buffer
	std := csv.NewWriter(&want)
	if err := std.WriteAll(records); err != nil {
		t.Fatalf("csv WriteAll() error: %v", err)
	}

	var got bytes.Buffer
	enc := &quotingEncoder{w: bufio.NewWriter(&got), delimiter: ',', quote: '"'}
	for _, record := range records {
		if err := enc.Write(record); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
	}
	enc.Flush()
	if err := enc.Error(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	if got.String() != want.String() {
		t.Errorf("output = %q, want %q", got.String(), want.String())
	}
}
