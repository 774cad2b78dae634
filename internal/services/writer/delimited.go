package writer

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// rowEncoder serializes rows of text fields
type rowEncoder interface {
	Write(record []string) error
	Flush()
	Error() error
}

// newRowEncoder returns encoding/csv for the standard double quote and a
// quotingEncoder for any other quote character
func newRowEncoder(w io.Writer, delimiter, quote rune) rowEncoder {
	if quote == '"' {
		enc := csv.NewWriter(w)
		enc.Comma = delimiter
		return enc
	}
	return &quotingEncoder{
		w:         bufio.NewWriter(w),
		delimiter: delimiter,
		quote:     quote,
	}
}

// quotingEncoder quotes a field when encoding/csv would: it contains the
// delimiter, the quote character or a line break, starts with a space or
// tab, or is exactly `\.`. Embedded quotes are doubled.
type quotingEncoder struct {
	w         *bufio.Writer
	delimiter rune
	quote     rune
	err       error
}

func (e *quotingEncoder) Write(record []string) error {
	if e.err != nil {
		return e.err
	}

	for i, field := range record {
		if i > 0 {
			if _, err := e.w.WriteRune(e.delimiter); err != nil {
				e.err = err
				return err
			}
		}
		if _, err := e.w.WriteString(e.encodeField(field)); err != nil {
			e.err = err
			return err
		}
	}

	if err := e.w.WriteByte('\n'); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *quotingEncoder) encodeField(field string) string {
	if !e.needsQuotes(field) {
		return field
	}
	q := string(e.quote)
	return q + strings.ReplaceAll(field, q, q+q) + q
}

func (e *quotingEncoder) needsQuotes(field string) bool {
	if field == "" {
		return false
	}
	if field == `\.` {
		return true
	}
	if strings.ContainsRune(field, e.delimiter) ||
		strings.ContainsRune(field, e.quote) ||
		strings.ContainsAny(field, "\r\n") {
		return true
	}
	r, _ := utf8.DecodeRuneInString(field)
	return unicode.IsSpace(r)
}

func (e *quotingEncoder) Flush() {
	if e.err != nil {
		return
	}
	e.err = e.w.Flush()
}

func (e *quotingEncoder) Error() error {
	return e.err
}
