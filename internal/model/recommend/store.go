package recommend

import (
	"sort"
	"strings"
)

// Store exposes per-role recommendation lookup.
type Store interface {
	Roles() []string
	FindByRole(role string) (Set, bool)
}

// MemoryStore implements Store with an in-memory map.
type MemoryStore struct {
	items map[string]Set
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied sets.
func NewMemoryStore(items map[string]Set) *MemoryStore {
	copied := make(map[string]Set, len(items))
	for role, set := range items {
		copied[strings.ToLower(role)] = set.Clone()
	}
	return &MemoryStore{items: copied}
}

// Roles lists the known roles in a stable order.
func (s *MemoryStore) Roles() []string {
	out := make([]string, 0, len(s.items))
	for _, role := range []string{RoleInstructor, RoleStaff, RoleLearner} {
		if _, ok := s.items[role]; ok {
			out = append(out, role)
		}
	}
	var extra []string
	for role := range s.items {
		if role != RoleInstructor && role != RoleStaff && role != RoleLearner {
			extra = append(extra, role)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// FindByRole looks up the set for a role, case-insensitively.
func (s *MemoryStore) FindByRole(role string) (Set, bool) {
	set, ok := s.items[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return Set{}, false
	}
	return set.Clone(), true
}
