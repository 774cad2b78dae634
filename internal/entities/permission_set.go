package entities

// PermissionSet is the set of permission names held by one entity
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from a permission list, collapsing duplicates
func NewPermissionSet(permissions []string) PermissionSet {
	set := make(PermissionSet, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the permission is in the set
func (s PermissionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of distinct permissions
func (s PermissionSet) Len() int {
	return len(s)
}
