package warehouse

import "github.com/holdfast-games/warehouse/internal/assert"

// ComponentID is a small integer assigned sequentially at registration
// time, starting at 1. 0 is never a valid component id.
type ComponentID uint32

// ComponentRegistryEntry describes one registered component, per spec.md
// §3. Size == 0 marks a tag: presence on an entity is the only
// information it carries.
type ComponentRegistryEntry struct {
	ID       ComponentID
	Name     string
	Size     int
	Provider StorageProvider
}

// IsTag reports whether this entry carries no per-entity payload.
func (e ComponentRegistryEntry) IsTag() bool { return e.Size == 0 }

// componentRegistry is the world's insertion-ordered component table, plus
// a component_id -> entry index map for O(1) lookup (trivially a slice,
// since ids are assigned sequentially starting at 1 — spec.md only
// requires constant time, not a hash map).
type componentRegistry struct {
	entries []ComponentRegistryEntry
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{entries: make([]ComponentRegistryEntry, 0, 64)}
}

// register appends a new entry and returns its id. Names are not
// deduplicated, per spec.md §4.2.
//
// Ids are capped strictly below MaxComponents, not at it: Mask.Mark
// indexes bit id directly (id 0 is reserved/unused rather than shifted
// out), so a Mask sized for MaxComponents bits only ever has room for
// ids 1..MaxComponents-1.
func (r *componentRegistry) register(name string, size int, provider StorageProvider) ComponentID {
	id := ComponentID(len(r.entries) + 1)
	assert.That(uint32(id) < MaxComponents, "component registry exhausted (max %d)", MaxComponents-1)
	r.entries = append(r.entries, ComponentRegistryEntry{
		ID:       id,
		Name:     name,
		Size:     size,
		Provider: provider,
	})
	return id
}

// entry returns the registry entry for id, or (zero, false) if id is
// unknown.
func (r *componentRegistry) entry(id ComponentID) (ComponentRegistryEntry, bool) {
	if id == 0 || int(id) > len(r.entries) {
		return ComponentRegistryEntry{}, false
	}
	return r.entries[id-1], true
}

// byName performs the linear search spec.md §4.2 describes for
// get_component_id: "intended for tools and tests, not hot paths."
func (r *componentRegistry) byName(name string) ComponentID {
	for _, e := range r.entries {
		if e.Name == name {
			return e.ID
		}
	}
	return 0
}
