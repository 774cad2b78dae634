package transformer

import (
	"reflect"
	"slices"
	"testing"

	"github.com/asakaida/permcsv/internal/entities"
)

func newDocument(pairs ...interface{}) *entities.PermissionDocument {
	doc := entities.NewPermissionDocument()
	for i := 0; i+1 < len(pairs); i += 2 {
		doc.Add(pairs[i].(string), pairs[i+1].([]string))
	}
	return doc
}

func TestRows_DefaultSchema(t *testing.T) {
	doc := newDocument(
		"student1", []string{"view_grades", "view_classes"},
		"teacher", []string{"view_grades", "change_grades", "add_grades", "delete_grades", "view_classes"},
	)

	rows := slices.Collect(Rows(doc, entities.DefaultFieldSchema()))

	want := []entities.MatrixRow{
		{EntityID: "student1", Indicators: []int{0, 1, 0, 0, 0, 1, 0, 0, 0}},
		{EntityID: "teacher", Indicators: []int{0, 1, 1, 1, 1, 1, 0, 0, 0}},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows() = %+v, want %+v", rows, want)
	}
}

func TestRows_OrderAndCount(t *testing.T) {
	ids := []string{"zeta", "alpha", "mid", "beta"}
	doc := entities.NewPermissionDocument()
	for _, id := range ids {
		doc.Add(id, nil)
	}

	var got []string
	for row := range Rows(doc, entities.DefaultFieldSchema()) {
		got = append(got, row.EntityID)
	}
	if !reflect.DeepEqual(got, ids) {
		t.Errorf("row order = %v, want %v", got, ids)
	}
}

func TestRows_IndicatorMembership(t *testing.T) {
	schema := entities.FieldSchema{"id", "read", "write", "admin"}

	tests := []struct {
		name        string
		permissions []string
		want        []int
	}{
		{name: "no permissions", permissions: nil, want: []int{0, 0, 0, 0}},
		{name: "single permission", permissions: []string{"write"}, want: []int{0, 0, 1, 0}},
		{name: "order does not matter", permissions: []string{"admin", "read"}, want: []int{0, 1, 0, 1}},
		{name: "duplicates collapse", permissions: []string{"read", "read", "read"}, want: []int{0, 1, 0, 0}},
		{name: "unknown permissions ignored", permissions: []string{"fly", "read"}, want: []int{0, 1, 0, 0}},
		{name: "id column name as permission", permissions: []string{"id"}, want: []int{1, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDocument("e", tt.permissions)
			rows := slices.Collect(Rows(doc, schema))
			if len(rows) != 1 {
				t.Fatalf("got %d rows, want 1", len(rows))
			}
			if !reflect.DeepEqual(rows[0].Indicators, tt.want) {
				t.Errorf("Indicators = %v, want %v", rows[0].Indicators, tt.want)
			}
		})
	}
}

func TestRows_EmptyDocument(t *testing.T) {
	rows := slices.Collect(Rows(entities.NewPermissionDocument(), entities.DefaultFieldSchema()))
	if len(rows) != 0 {
		t.Errorf("Rows() on empty document = %v, want none", rows)
	}
}

func TestRows_StopsEarly(t *testing.T) {
	doc := newDocument("a", []string{}, "b", []string{}, "c", []string{})

	var seen []string
	for row := range Rows(doc, entities.DefaultFieldSchema()) {
		seen = append(seen, row.EntityID)
		if len(seen) == 2 {
			break
		}
	}
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Errorf("seen = %v, want [a b]", seen)
	}
}

func TestUnknownPermissions(t *testing.T) {
	doc := newDocument(
		"student1", []string{"view_grades", "fly", "fly"},
		"teacher", []string{"view_grades"},
		"principal", []string{"person", "hire"},
	)

	got := UnknownPermissions(doc, entities.DefaultFieldSchema())
	want := map[string][]string{
		"student1":  {"fly"},
		"principal": {"hire"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UnknownPermissions() = %v, want %v", got, want)
	}
}

// A permission is either counted in the row or reported as unknown, never both.
func TestUnknownPermissions_AgreesWithRows(t *testing.T) {
	schema := entities.DefaultFieldSchema()
	doc := newDocument(
		"a", []string{"person"},
		"b", []string{"person", "view_grades", "fly"},
	)
	unknown := UnknownPermissions(doc, schema)

	for row := range Rows(doc, schema) {
		perms, _ := doc.Permissions(row.EntityID)
		counted := 0
		for _, v := range row.Indicators {
			counted += v
		}
		distinct := entities.NewPermissionSet(perms).Len()
		if counted+len(unknown[row.EntityID]) != distinct {
			t.Errorf("%s: %d counted + %v unknown, want %d distinct permissions",
				row.EntityID, counted, unknown[row.EntityID], distinct)
		}
	}

	if _, ok := unknown["a"]; ok {
		t.Errorf("UnknownPermissions()[a] = %v, want none", unknown["a"])
	}
}
