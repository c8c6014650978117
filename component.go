package warehouse

import "unsafe"

// Component[T] is a typed handle over a registered component, layered on
// top of the byte-oriented Set/Get/Has core API. It is grounded on the
// teacher's AccessibleComponent[T] (componentaccessible.go), which wraps a
// table.Accessor[T] so callers read *T straight off a cursor instead of
// marshaling bytes by hand; here the same ergonomic layer sits on top of
// the byte-level StorageProvider ABI so it works for any provider, native
// or not only when the column happens to be native.
type Component[T any] struct {
	id   ComponentID
	size int
}

// RegisterComponent registers T as a data component and returns a typed
// handle for it. Every call assigns a new component id: names are not
// deduplicated, so registering the same name twice yields two distinct
// components.
func RegisterComponent[T any](w *World, name string) Component[T] {
	var zero T
	size := int(unsafe.Sizeof(zero))
	id := w.RegisterComponent(name, size, nil)
	return Component[T]{id: id, size: size}
}

// RegisterComponentWithProvider is RegisterComponent with an explicit
// storage provider, for components whose bytes must live inside a hosting
// application's own memory (spec.md §4.3).
func RegisterComponentWithProvider[T any](w *World, name string, provider StorageProvider) Component[T] {
	var zero T
	size := int(unsafe.Sizeof(zero))
	id := w.RegisterComponent(name, size, provider)
	return Component[T]{id: id, size: size}
}

// RegisterTag registers a presence-only (zero-size) component.
func RegisterTag(w *World, name string) ComponentID {
	return w.RegisterComponentTag(name)
}

// ID returns the underlying component id.
func (c Component[T]) ID() ComponentID { return c.id }

// Set writes value onto entity e, transitioning archetypes if needed.
func (c Component[T]) Set(w *World, e EntityID, value T) {
	w.Set(e, c.id, unsafe.Pointer(&value), c.size)
}

// Get returns a pointer to e's value for this component, or nil if e
// doesn't carry it.
func (c Component[T]) Get(w *World, e EntityID) *T {
	p := w.Get(e, c.id)
	if p == nil {
		return nil
	}
	return (*T)(p)
}

// Has reports whether entity e carries this component.
func (c Component[T]) Has(w *World, e EntityID) bool {
	return w.Has(e, c.id)
}

// Unset removes this component from entity e.
func (c Component[T]) Unset(w *World, e EntityID) {
	w.Unset(e, c.id)
}

// MarkChanged stamps this component's changed tick for e without writing a
// new value.
func (c Component[T]) MarkChanged(w *World, e EntityID) {
	w.MarkChanged(e, c.id)
}

// Column returns the current chunk's values for this component as a typed
// slice, when the column is natively (contiguously) stored. Returns nil on
// a non-native column or tag component; use RowAt for the general path.
func (c Component[T]) Column(it *QueryIterator) []T {
	ptr, size := it.ColumnPtr(c.id)
	if ptr == nil || size != c.size {
		return nil
	}
	return unsafe.Slice((*T)(ptr), it.Count())
}

// RowAt returns a pointer to row row's value for this component in the
// iterator's current chunk, working for native and non-native storage
// alike.
func (c Component[T]) RowAt(it *QueryIterator, row int) *T {
	p := it.RowPtr(c.id, row)
	if p == nil {
		return nil
	}
	return (*T)(p)
}

// Changed reports whether row row's changed tick falls within
// (lastRunTick, thisRunTick].
func (c Component[T]) Changed(it *QueryIterator, row int, lastRunTick, thisRunTick Tick) bool {
	return it.RowChanged(c.id, row, lastRunTick, thisRunTick)
}

// Added reports whether row row's added tick falls within
// (lastRunTick, thisRunTick].
func (c Component[T]) Added(it *QueryIterator, row int, lastRunTick, thisRunTick Tick) bool {
	return it.RowAdded(c.id, row, lastRunTick, thisRunTick)
}
