package state

// CollectionRegistry is the permanent, session-independent set of unlocked
// collectible ids. It only grows, except through Collection.Erase.
type CollectionRegistry struct {
	ids   []int
	index map[int]struct{}
}

func NewCollectionRegistry() CollectionRegistry {
	return CollectionRegistry{ids: make([]int, 0), index: make(map[int]struct{})}
}

func (r *CollectionRegistry) HasCollected(id int) bool {
	_, ok := r.index[id]
	return ok
}

// Collect adds id and returns true only the first time it is seen.
// Ids <= 0 are rejected.
func (r *CollectionRegistry) Collect(id int) bool {
	if id <= 0 || r.HasCollected(id) {
		return false
	}
	r.ids = append(r.ids, id)
	r.index[id] = struct{}{}
	return true
}

func (r *CollectionRegistry) Count() int {
	return len(r.ids)
}

// IDs returns the unlocked ids in unlock order.
func (r *CollectionRegistry) IDs() []int {
	out := make([]int, len(r.ids))
	copy(out, r.ids)
	return out
}

func (r *CollectionRegistry) clear() {
	r.ids = make([]int, 0)
	r.index = make(map[int]struct{})
}
