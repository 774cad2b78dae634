package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/asakaida/permcsv/internal/entities"
)

// Decode parses data into a PermissionDocument.
// It returns a *ParseError for malformed JSON and a *ShapeError for
// well-formed JSON of the wrong shape. The document is accepted or
// rejected as a whole.
func Decode(data []byte) (*entities.PermissionDocument, error) {
	if err := checkSyntax(data); err != nil {
		return nil, err
	}

	doc, err := decodeStrict(data)
	if err != nil {
		return nil, &ShapeError{Reason: err.Error(), Document: compact(data)}
	}
	return doc, nil
}

// Conforms reports whether data is a well-formed permission document
func Conforms(data []byte) bool {
	_, err := Decode(data)
	return err == nil
}

// checkSyntax reports malformed JSON with its position
func checkSyntax(data []byte) error {
	if json.Valid(data) {
		return nil
	}

	var v interface{}
	err := json.Unmarshal(data, &v)
	if err == nil {
		// json.Valid and Unmarshal disagree only on exotic input
		err = errors.New("malformed JSON")
	}

	parseErr := &ParseError{Err: err}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		parseErr.Line, parseErr.Column = position(data, syntaxErr.Offset)
	}
	return parseErr
}

// decodeStrict decodes directly into the {string: [string]} structure,
// keeping the key order of the input
func decodeStrict(data []byte) (*entities.PermissionDocument, error) {
	if kind := kindOf(data); kind != "object" {
		return nil, fmt.Errorf("top-level value is %s, want object", kind)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}

	doc := entities.NewPermissionDocument()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("entity %q: %w", id, err)
		}

		perms, err := decodePermissionList(raw)
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", id, err)
		}
		doc.Add(id, perms)
	}

	return doc, nil
}

func decodePermissionList(raw json.RawMessage) ([]string, error) {
	if kind := kindOf(raw); kind != "array" {
		return nil, fmt.Errorf("value is %s, want array of strings", kind)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	perms := make([]string, 0, len(items))
	for i, item := range items {
		if kind := kindOf(item); kind != "string" {
			return nil, fmt.Errorf("element %d is %s, want string", i, kind)
		}
		var p string
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		perms = append(perms, p)
	}
	return perms, nil
}

// kindOf names the JSON type of a well-formed value
func kindOf(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "empty"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func compact(data []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return string(bytes.TrimSpace(data))
	}
	return buf.String()
}

// position converts a byte offset into a 1-based line and column
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
