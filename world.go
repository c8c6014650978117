package warehouse

import "unsafe"

// World owns every entity, archetype, and component registered against it.
// It is the root of the C-ABI-shaped handle surface spec.md §6 describes —
// a Go method set stands in for the literal function-pointer table, per
// this exercise's "idiomatic Go only" instruction.
type World struct {
	config Config

	registry       *componentRegistry
	entityIndex    *entityIndex
	archetypeTable *archetypeTable
	root           *Archetype

	// archetypesByOrder preserves creation order for query builds and
	// compaction, since the open-addressed table itself has no stable
	// iteration order once tombstones appear.
	archetypesByOrder []*Archetype

	tick                     Tick
	structuralChangeVersion uint64

	parentID   ComponentID
	childrenID ComponentID
	hierarchy  *hierarchyTable

	deferDepth int
	buffer     *CommandBuffer
}

// NewWorld constructs an empty world with one archetype already present:
// the root (empty component set), which is never freed while the world
// lives, per spec.md §3 "Lifecycle."
func NewWorld(cfg Config) *World {
	if cfg.DefaultProvider == nil {
		cfg.DefaultProvider = NativeProvider{}
	}
	w := &World{
		config:         cfg,
		registry:       newComponentRegistry(),
		entityIndex:    newEntityIndex(),
		archetypeTable: newArchetypeTable(),
		buffer:         newCommandBuffer(),
	}
	w.root = w.archetypeTable.getOrCreate(w, Mask{})

	w.parentID = w.RegisterComponent("Parent", int(unsafe.Sizeof(EntityID(0))), nil)
	w.childrenID = w.RegisterComponentTag("Children")
	w.hierarchy = newHierarchyTable()

	return w
}

// Free releases every chunk's provider-owned storage. Go's GC reclaims the
// rest, but providers backing managed-runtime interop (per spec.md §4.3)
// may hold resources outside the GC's view, so every archetype's chunks
// are still walked and freed explicitly.
func (w *World) Free() {
	for _, a := range w.archetypesByOrder {
		a.free()
	}
	w.archetypesByOrder = nil
}

// Update advances the world's tick by one, per spec.md §3: "one 'frame'."
func (w *World) Update() {
	w.tick++
}

// Tick returns the world's current tick.
func (w *World) Tick() Tick { return w.tick }

// EntityCount returns the number of live entities, which spec.md §8
// requires equal the sum of chunk.count over every chunk of every
// archetype; entityIndex.count() tracks that sum incrementally so this is
// O(1) rather than a tree walk.
func (w *World) EntityCount() int { return w.entityIndex.count() }

// StructuralChangeVersion returns the counter bumped by every operation
// that adds/removes/moves an entity across archetypes or creates/destroys
// an archetype, per spec.md §5. Query.Build compares this against the
// version it last built against to decide whether a rebuild is needed, and
// a QueryIterator panics if it changes while the iterator is live.
func (w *World) StructuralChangeVersion() uint64 { return w.structuralChangeVersion }

// Clear removes every entity and archetype except the root, leaving
// component registrations intact.
func (w *World) Clear() {
	for _, a := range w.archetypesByOrder {
		a.free()
	}
	w.entityIndex.clear()
	w.archetypeTable = newArchetypeTable()
	w.archetypesByOrder = nil
	w.root = w.archetypeTable.getOrCreate(w, Mask{})
	w.structuralChangeVersion++
}

// RemoveEmptyArchetypes frees every archetype with EntityCount() == 0
// except the root, per spec.md §4.10. It returns the number freed.
func (w *World) RemoveEmptyArchetypes() int {
	freed := 0
	kept := w.archetypesByOrder[:0]
	for _, a := range w.archetypesByOrder {
		if a == w.root || a.entityCount > 0 {
			kept = append(kept, a)
			continue
		}
		w.archetypeTable.remove(a)
		a.free()
		freed++
	}
	w.archetypesByOrder = kept
	if freed > 0 {
		w.structuralChangeVersion++
	}
	return freed
}

// RegisterComponent assigns the next component id and appends a data
// component entry to the registry, per spec.md §4.2. A nil provider falls
// back to the world's configured default (native, unless overridden).
func (w *World) RegisterComponent(name string, sizeBytes int, provider StorageProvider) ComponentID {
	if provider == nil {
		provider = w.config.DefaultProvider
	}
	return w.registry.register(name, sizeBytes, provider)
}

// RegisterComponentTag registers a zero-size (presence-only) component.
func (w *World) RegisterComponentTag(name string) ComponentID {
	return w.registry.register(name, 0, nil)
}

// GetComponentID performs the linear, tools-only lookup spec.md §4.2
// describes, returning 0 if name was never registered.
func (w *World) GetComponentID(name string) ComponentID {
	return w.registry.byName(name)
}

// ComponentEntry exposes a registered component's registry entry, or
// (zero, false) if id is unknown.
func (w *World) ComponentEntry(id ComponentID) (ComponentRegistryEntry, bool) {
	return w.registry.entry(id)
}

// DefaultStorageProvider returns the provider new components fall back to
// when none is supplied explicitly.
func (w *World) DefaultStorageProvider() StorageProvider { return w.config.DefaultProvider }

// ParentComponentID returns the id of the automatically-registered parent
// component (spec.md §4.2: "Two special components are registered
// automatically at world creation").
func (w *World) ParentComponentID() ComponentID { return w.parentID }

// ChildrenComponentID returns the id of the automatically-registered
// children component.
func (w *World) ChildrenComponentID() ComponentID { return w.childrenID }

// CreateEntity allocates a fresh or recycled id at the empty (root)
// archetype, per spec.md §2 "create_entity adds to the entity index at
// the empty (root) archetype."
func (w *World) CreateEntity() EntityID {
	e, _ := w.entityIndex.create()
	rec := w.root.addEntity(e, w.tick)
	w.entityIndex.setRecord(e, rec)
	return e
}

// EntityExists reports whether e names a currently-live entity.
func (w *World) EntityExists(e EntityID) bool {
	return w.entityIndex.exists(e)
}

// DeleteEntity removes e from its archetype and releases its index slot,
// per spec.md §4.6 delete(e). Deleting an unknown or stale id is a silent
// no-op per spec.md §7.
func (w *World) DeleteEntity(e EntityID) {
	if w.deferDepth > 0 {
		w.buffer.recordDelete(e)
		return
	}
	rec, ok := w.entityIndex.get(e)
	if !ok {
		return
	}
	w.hierarchy.onDelete(w, e)
	moved := rec.Archetype.removeEntity(rec.ChunkIndex, rec.Row)
	w.fixMovedRecord(rec.Archetype, rec.ChunkIndex, rec.Row, moved)
	w.entityIndex.delete(e)
}

// fixMovedRecord updates the index record of whichever entity swap-remove
// relocated into (chunkIndex, row), per the "cyclic back-pointers" design
// note: the mover is identified by the id that used to sit in the chunk's
// last row, resolved by the caller before the swap happened.
func (w *World) fixMovedRecord(a *Archetype, chunkIndex, row int, moved EntityID) {
	if moved == NullEntity {
		return
	}
	w.entityIndex.setRecord(moved, EntityRecord{Archetype: a, ChunkIndex: chunkIndex, Row: row})
}

// BeginDeferred starts a deferred region: Set (every call, including
// in-place writes), Unset and DeleteEntity are recorded into a
// CommandBuffer instead of applied immediately. CreateEntity and
// MarkChanged are not deferred and apply at once. Per spec.md §6, this is
// the approved discipline for mutating a world while a query iterator
// walks it. Calls nest; only the outermost EndDeferred replays the buffer.
func (w *World) BeginDeferred() {
	w.deferDepth++
}

// EndDeferred closes one deferred region. When the outermost region closes,
// every recorded operation replays in record order through the same entry
// points listed in spec.md §6.
func (w *World) EndDeferred() {
	if w.deferDepth == 0 {
		return
	}
	w.deferDepth--
	if w.deferDepth == 0 {
		w.buffer.replay(w)
	}
}

// Deferred reports whether the world is currently inside a BeginDeferred/
// EndDeferred region.
func (w *World) Deferred() bool { return w.deferDepth > 0 }
