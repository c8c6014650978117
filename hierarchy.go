package warehouse

import "unsafe"

// hierarchyTable is the side table backing the world's auto-registered
// parent/children components, per spec.md §1 ("Hierarchy ... modeled as
// ordinary components plus a side table; trivial atop the core") and the
// SPEC_FULL.md expansion of it. The children component is registered as a
// tag (§4.2: size_bytes == 0) rather than a data component: a live Go
// slice can't safely be stored as raw bytes inside a provider-owned
// column (§4.3 treats row storage as an opaque byte span a provider may
// place anywhere, including off the Go heap), so the authoritative child
// list lives only here, read through World.Children — the tag's only job
// is to make Has(e, childrenComponent) a cheap presence check.
//
// Grounded on the teacher's entity.go relationships struct, which tracks
// parent/recycled-generation/destroy-callback bookkeeping outside the
// component table in exactly this way.
type hierarchyTable struct {
	children map[EntityID][]EntityID
}

func newHierarchyTable() *hierarchyTable {
	return &hierarchyTable{children: make(map[EntityID][]EntityID)}
}

// SetParent attaches child to parent: writes the parent component on
// child, appends child to parent's children side-table entry, and makes
// sure the parent carries the children tag so Has against the children
// component id is true. The list itself is read through Children; Get on
// the children component id returns nil.
func (w *World) SetParent(child, parent EntityID) {
	if !w.EntityExists(child) || !w.EntityExists(parent) {
		return
	}
	if old := w.parentOf(child); old != NullEntity && old != parent {
		w.hierarchy.removeChild(old, child)
	}
	w.Set(child, w.parentID, unsafe.Pointer(&parent), int(unsafe.Sizeof(parent)))
	w.hierarchy.children[parent] = appendUnique(w.hierarchy.children[parent], child)
	w.syncChildrenComponent(parent)
}

// Parent returns child's parent, or NullEntity if it has none.
func (w *World) Parent(child EntityID) EntityID {
	return w.parentOf(child)
}

func (w *World) parentOf(child EntityID) EntityID {
	p := w.Get(child, w.parentID)
	if p == nil {
		return NullEntity
	}
	return *(*EntityID)(p)
}

// Children returns e's direct children, in the order they were attached.
// The returned slice is owned by the hierarchy table; callers must not
// mutate it.
func (w *World) Children(e EntityID) []EntityID {
	return w.hierarchy.children[e]
}

func (t *hierarchyTable) removeChild(parent, child EntityID) {
	kids := t.children[parent]
	for i, k := range kids {
		if k == child {
			t.children[parent] = append(kids[:i], kids[i+1:]...)
			return
		}
	}
}

// onDelete detaches e from its parent's child list and orphans e's own
// children (clearing their parent component), called from
// World.DeleteEntity before the entity's storage row is reclaimed.
func (t *hierarchyTable) onDelete(w *World, e EntityID) {
	if parent := w.parentOf(e); parent != NullEntity {
		t.removeChild(parent, e)
	}
	for _, child := range t.children[e] {
		w.Unset(child, w.parentID)
	}
	delete(t.children, e)
}

func (w *World) syncChildrenComponent(parent EntityID) {
	if !w.Has(parent, w.childrenID) {
		// children is registered as a tag (presence-only); the side table
		// is the payload. Ensure presence so Has(parent, childrenID) is
		// true once a parent has at least one child.
		w.Set(parent, w.childrenID, nil, 0)
	}
}

func appendUnique(s []EntityID, e EntityID) []EntityID {
	for _, v := range s {
		if v == e {
			return s
		}
	}
	return append(s, e)
}
