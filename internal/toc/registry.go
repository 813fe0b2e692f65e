package toc

import "strconv"

// Registry hands out ids that are unique within one document.
type Registry struct {
	used map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{used: make(map[string]struct{})}
}

// Assign returns base if it has not been handed out yet, otherwise the first
// free candidate of base-1, base-2, ... The returned id is recorded.
// The empty base is valid and is disambiguated the same way.
func (r *Registry) Assign(base string) string {
	id := base
	for i := 1; r.has(id); i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	r.used[id] = struct{}{}
	return id
}

func (r *Registry) has(id string) bool {
	_, ok := r.used[id]
	return ok
}

// Len reports how many ids were assigned.
func (r *Registry) Len() int {
	return len(r.used)
}
