package transformer

import (
	"iter"

	"github.com/asakaida/permcsv/internal/entities"
)

// Rows yields one row per entity in document order.
// Each schema column gets 1 if the entity holds a permission of that name,
// otherwise 0. Permissions absent from the schema are ignored.
func Rows(doc *entities.PermissionDocument, schema entities.FieldSchema) iter.Seq[entities.MatrixRow] {
	return func(yield func(entities.MatrixRow) bool) {
		for _, entry := range doc.Entries() {
			if !yield(BuildRow(entry.ID, entities.NewPermissionSet(entry.Permissions), schema)) {
				return
			}
		}
	}
}

// BuildRow computes the indicators of one entity
func BuildRow(id string, set entities.PermissionSet, schema entities.FieldSchema) entities.MatrixRow {
	indicators := make([]int, len(schema))
	for i, field := range schema {
		if set.Has(field) {
			indicators[i] = 1
		}
	}
	return entities.MatrixRow{EntityID: id, Indicators: indicators}
}

// UnknownPermissions returns, per entity, the permissions that no schema
// column matches. The id column counts as a column, as in BuildRow.
// Entities without such permissions are omitted.
func UnknownPermissions(doc *entities.PermissionDocument, schema entities.FieldSchema) map[string][]string {
	known := entities.NewPermissionSet(schema)
	unknown := make(map[string][]string)

	for _, entry := range doc.Entries() {
		seen := make(map[string]bool)
		for _, p := range entry.Permissions {
			if known.Has(p) || seen[p] {
				continue
			}
			seen[p] = true
			unknown[entry.ID] = append(unknown[entry.ID], p)
		}
	}
	return unknown
}
