package entities

// DocumentEntry is one entity of a PermissionDocument with its raw permission list
type DocumentEntry struct {
	ID          string   // Entity identifier (e.g., "student1", "teacher")
	Permissions []string // Permission names as listed in the source, duplicates included
}

// PermissionDocument maps entity identifiers to permission lists.
// Iteration order is the order in which entities were first added.
type PermissionDocument struct {
	entries []DocumentEntry
	index   map[string]int
}

// NewPermissionDocument creates an empty PermissionDocument
func NewPermissionDocument() *PermissionDocument {
	return &PermissionDocument{
		entries: []DocumentEntry{},
		index:   make(map[string]int),
	}
}

// Add sets the permission list of an entity.
// Re-adding an existing id replaces its list but keeps its original position.
func (d *PermissionDocument) Add(id string, permissions []string) {
	perms := make([]string, len(permissions))
	copy(perms, permissions)

	if i, exists := d.index[id]; exists {
		d.entries[i].Permissions = perms
		return
	}
	d.index[id] = len(d.entries)
	d.entries = append(d.entries, DocumentEntry{ID: id, Permissions: perms})
}

// Len returns the number of entities
func (d *PermissionDocument) Len() int {
	return len(d.entries)
}

// IDs returns the entity identifiers in document order
func (d *PermissionDocument) IDs() []string {
	ids := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// Permissions returns the permission list of an entity
func (d *PermissionDocument) Permissions(id string) ([]string, bool) {
	i, exists := d.index[id]
	if !exists {
		return nil, false
	}
	return d.entries[i].Permissions, true
}

// Entries returns a copy of the entries in document order
func (d *PermissionDocument) Entries() []DocumentEntry {
	out := make([]DocumentEntry, len(d.entries))
	copy(out, d.entries)
	return out
}
