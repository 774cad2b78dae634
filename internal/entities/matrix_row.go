package entities

import "strconv"

// MatrixRow is one output row: the entity id followed by 0/1 indicators,
// one per schema column in schema order
type MatrixRow struct {
	EntityID   string
	Indicators []int
}

// Fields renders the row as text fields
func (r MatrixRow) Fields() []string {
	fields := make([]string, 0, len(r.Indicators)+1)
	fields = append(fields, r.EntityID)
	for _, ind := range r.Indicators {
		fields = append(fields, strconv.Itoa(ind))
	}
	return fields
}
