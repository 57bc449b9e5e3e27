// Package repository provides a small generic in-memory collection used to
// hold domain entities between disk loads and saves.
package repository

// Repository is an ordered in-memory collection of items. The zero value is
// ready to use. It is not safe for concurrent use; callers serialize access.
type Repository[T comparable] struct {
	items []T
}

// New returns an empty repository.
func New[T comparable]() *Repository[T] {
	return &Repository[T]{}
}

// Add appends the item. Zero values are ignored so that failed lookups or
// nil pointers never end up stored.
func (r *Repository[T]) Add(item T) {
	var zero T
	if item == zero {
		return
	}
	r.items = append(r.items, item)
}

// Get returns the item at the given position, or the zero value when the
// index is out of range.
func (r *Repository[T]) Get(index int) T {
	if index < 0 || index >= len(r.items) {
		var zero T
		return zero
	}
	return r.items[index]
}

// Remove drops every stored item equal to the given one.
func (r *Repository[T]) Remove(item T) {
	kept := r.items[:0]
	for _, it := range r.items {
		if it != item {
			kept = append(kept, it)
		}
	}
	r.items = kept
}

// FindFirst returns the first item matching the predicate and whether one
// was found.
func (r *Repository[T]) FindFirst(match func(T) bool) (T, bool) {
	for _, it := range r.items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// FindAll returns every item matching the predicate, in insertion order.
func (r *Repository[T]) FindAll(match func(T) bool) []T {
	var found []T
	for _, it := range r.items {
		if match(it) {
			found = append(found, it)
		}
	}
	return found
}

// All returns the stored items in insertion order. The slice is a copy;
// mutating it does not affect the repository.
func (r *Repository[T]) All() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Size returns the number of stored items.
func (r *Repository[T]) Size() int { return len(r.items) }

// RemoveAll empties the repository.
func (r *Repository[T]) RemoveAll() { r.items = nil }
