package entities

import (
	"fmt"
	"strings"
)

// FieldSchema is the ordered list of output columns.
// The first column holds the entity id; every column is also matched
// against the entity's permissions to produce an indicator.
type FieldSchema []string

// DefaultFieldSchema returns the grades/classes schema
func DefaultFieldSchema() FieldSchema {
	return FieldSchema{
		"person",
		"view_grades",
		"change_grades",
		"add_grades",
		"delete_grades",
		"view_classes",
		"change_classes",
		"add_classes",
		"delete_classes",
	}
}

// IDColumn returns the name of the entity id column
func (s FieldSchema) IDColumn() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// PermissionFields returns the columns after the id column
func (s FieldSchema) PermissionFields() []string {
	if len(s) < 2 {
		return nil
	}
	return s[1:]
}

// Header returns the header row
func (s FieldSchema) Header() []string {
	header := make([]string, len(s))
	copy(header, s)
	return header
}

// Validate checks that the schema has an id column and unique, non-empty names
func (s FieldSchema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("field schema must contain at least the id column")
	}

	var errs []string
	seen := make(map[string]bool)
	for i, name := range s {
		if name == "" {
			errs = append(errs, fmt.Sprintf("column %d: empty name", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Sprintf("duplicate column name: %s", name))
		}
		seen[name] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid field schema:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
