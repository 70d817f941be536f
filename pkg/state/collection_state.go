package state

// CollectionObserver receives the collection record after every committed mutation.
type CollectionObserver func(CollectionRecord)

// Collection wraps the registry with change notification. It has its own
// lifecycle: session resets never reach it, only Erase clears it.
type Collection struct {
	registry  CollectionRegistry
	observers []CollectionObserver
}

func NewCollection() *Collection {
	return &Collection{registry: NewCollectionRegistry()}
}

// CollectionFromRecord rebuilds the collection, dropping invalid and
// duplicate ids.
func CollectionFromRecord(rec CollectionRecord) *Collection {
	c := NewCollection()
	for _, id := range rec.UnlockedIDs {
		c.registry.Collect(id)
	}
	return c
}

func (c *Collection) Subscribe(fn CollectionObserver) {
	c.observers = append(c.observers, fn)
}

func (c *Collection) notify() {
	rec := c.Record()
	for _, fn := range c.observers {
		fn(rec)
	}
}

func (c *Collection) Record() CollectionRecord {
	return CollectionRecord{UnlockedIDs: c.registry.IDs()}
}

func (c *Collection) HasCollected(id int) bool { return c.registry.HasCollected(id) }
func (c *Collection) Count() int               { return c.registry.Count() }
func (c *Collection) IDs() []int               { return c.registry.IDs() }

// Collect unlocks id, notifying observers only when it is new.
func (c *Collection) Collect(id int) bool {
	if !c.registry.Collect(id) {
		return false
	}
	c.notify()
	return true
}

// Erase clears every unlocked id. This is the only path that shrinks the
// collection and is reserved for an explicit erase-all-progress action.
func (c *Collection) Erase() {
	c.registry.clear()
	c.notify()
}
