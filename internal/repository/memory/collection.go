package memory

import "registrar/internal/repository"

// collection stores one entity kind keyed by ID, remembering insertion order
type collection[T any] struct {
	items map[string]T
	order []string
	idOf  func(T) string
	clone func(T) T
}

func newCollection[T any](idOf func(T) string, clone func(T) T) *collection[T] {
	return &collection[T]{
		items: make(map[string]T),
		idOf:  idOf,
		clone: clone,
	}
}

// addResult reports what an add did to the collection
type addResult int

const (
	addInserted addResult = iota
	addReplaced
	addRejected
)

func (c *collection[T]) add(item T, policy repository.DuplicatePolicy) addResult {
	id := c.idOf(item)
	if _, exists := c.items[id]; exists {
		if policy != repository.OverwriteDuplicates {
			return addRejected
		}
		c.items[id] = c.clone(item)
		return addReplaced
	}
	c.items[id] = c.clone(item)
	c.order = append(c.order, id)
	return addInserted
}

func (c *collection[T]) get(id string) *T {
	item, ok := c.items[id]
	if !ok {
		return nil
	}
	cp := c.clone(item)
	return &cp
}

func (c *collection[T]) all() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.clone(c.items[id]))
	}
	return out
}

func (c *collection[T]) len() int {
	return len(c.order)
}

func (c *collection[T]) reset() {
	c.items = make(map[string]T)
	c.order = nil
}
