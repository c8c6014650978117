package warehouse

import "github.com/kamstrup/intmap"

// ComponentInfo describes one component's placement within an archetype.
type ComponentInfo struct {
	ID       ComponentID
	Size     int
	Provider StorageProvider
	// ColumnIndex is this component's position in the archetype's data
	// columns, assigned in sorted-id order to every size>0 component.
	// Meaningless for tags.
	ColumnIndex int
}

// Archetype is the storage for every entity that has exactly one
// component set, per spec.md §3. The component_id-keyed maps use
// github.com/kamstrup/intmap rather than Go's builtin map: these maps are
// walked on every set/unset, and per the teacher's own design notes
// ("component_id -> ... maps are small ... open addressing wins over
// chained hashing here") an open-addressed int-keyed map is exactly what
// the engine wants; we ground our instance of the pattern in intmap rather
// than hand-rolling a second one, since nothing about the per-archetype
// maps needs the exact probing/resize guarantees the archetype *table*
// itself is tested against (see archetypetable.go).
type Archetype struct {
	id archetypeHash

	mask Mask

	components     []ComponentInfo // sorted by id, data + tags
	dataComponents []ComponentInfo // subset with Size > 0, in column order
	tags           []ComponentInfo // subset with Size == 0

	componentIndex *intmap.Map[uint32, int] // component id -> index in components
	dataIndex      *intmap.Map[uint32, int] // component id -> column index

	addEdges    *intmap.Map[uint32, *Archetype] // add component id -> destination
	removeEdges *intmap.Map[uint32, *Archetype] // remove component id -> destination

	chunks      []*Chunk
	entityCount int

	world *World
}

type archetypeHash uint64

// newArchetype builds an archetype for the given sorted component info,
// per spec.md §4.4 "Creation": partition into data/tag, build the two
// lookup maps, leave chunks empty (allocated lazily on first insertion).
func newArchetype(w *World, mask Mask, components []ComponentInfo) *Archetype {
	a := &Archetype{
		id:             archetypeHash(mask.hash()),
		mask:           mask,
		components:     components,
		componentIndex: intmap.New[uint32, int](8),
		dataIndex:      intmap.New[uint32, int](8),
		addEdges:       intmap.New[uint32, *Archetype](4),
		removeEdges:    intmap.New[uint32, *Archetype](4),
		chunks:         make([]*Chunk, 0, initialChunksPerArchetype),
		world:          w,
	}

	columnIdx := 0
	for i, c := range components {
		a.componentIndex.Put(uint32(c.ID), i)
		if c.Size > 0 {
			c.ColumnIndex = columnIdx
			components[i].ColumnIndex = columnIdx
			a.dataComponents = append(a.dataComponents, c)
			a.dataIndex.Put(uint32(c.ID), columnIdx)
			columnIdx++
		} else {
			a.tags = append(a.tags, c)
		}
	}
	return a
}

// ID is the order-independent hash of this archetype's component set.
func (a *Archetype) ID() uint64 { return uint64(a.id) }

// EntityCount is the denormalized sum of every chunk's live row count.
func (a *Archetype) EntityCount() int { return a.entityCount }

// Chunks returns the archetype's chunks in allocation order. Empty chunks
// (count == 0) may appear; iteration skips them.
func (a *Archetype) Chunks() []*Chunk { return a.chunks }

// Has reports whether component id is part of this archetype's set.
func (a *Archetype) Has(id ComponentID) bool {
	return a.mask.Has(uint32(id))
}

// componentAt returns this archetype's ComponentInfo for id.
func (a *Archetype) componentAt(id ComponentID) (ComponentInfo, bool) {
	idx, ok := a.componentIndex.Get(uint32(id))
	if !ok {
		return ComponentInfo{}, false
	}
	return a.components[idx], true
}

// dataColumnIndex returns the column index for a data component, or
// (0, false) if id is absent or is a tag on this archetype.
func (a *Archetype) dataColumnIndex(id ComponentID) (int, bool) {
	return a.dataIndex.Get(uint32(id))
}

// chunkWithRoom returns a chunk with free capacity, allocating a new one if
// every existing chunk is full, per spec.md §4.5 add_entity step 1.
func (a *Archetype) chunkWithRoom() *Chunk {
	for _, c := range a.chunks {
		if c.hasRoom() {
			return c
		}
	}
	c := newChunk(a)
	a.chunks = append(a.chunks, c)
	return c
}

// addEntity places e into a chunk with room and returns its new record.
// spec.md §4.5. Every call is a structural change per spec.md §5 (an
// entity joined this archetype, whether freshly created or moved in from
// another one), so it bumps the world's structural_change_version — this
// is the only place an entity is ever added to archetype storage.
func (a *Archetype) addEntity(e EntityID, tick Tick) EntityRecord {
	c := a.chunkWithRoom()
	chunkIndex := -1
	for i, ch := range a.chunks {
		if ch == c {
			chunkIndex = i
			break
		}
	}
	row := c.addRow(e, tick)
	a.entityCount++
	a.world.structuralChangeVersion++
	return EntityRecord{Archetype: a, ChunkIndex: chunkIndex, Row: row}
}

// removeEntity swap-removes the row at (chunkIndex, row), per spec.md §4.5
// remove_entity. It returns the id that used to occupy the chunk's last
// row (NullEntity if nothing moved), so the world can fix that entity's
// index record. Every call is a structural change per spec.md §5 (an
// entity left this archetype, whether deleted or moved to another one),
// so it bumps the world's structural_change_version — this is the only
// place an entity is ever removed from archetype storage.
func (a *Archetype) removeEntity(chunkIndex, row int) EntityID {
	c := a.chunks[chunkIndex]
	moved := c.removeRow(row)
	a.entityCount--
	a.world.structuralChangeVersion++
	return moved
}

// edgeAdd returns (creating and caching if needed) the archetype reached by
// adding component id to a, per spec.md §4.4 "Edges".
func (a *Archetype) edgeAdd(w *World, id ComponentID) *Archetype {
	if dest, ok := a.addEdges.Get(uint32(id)); ok {
		return dest
	}
	destMask := a.mask.With(uint32(id))
	dest := w.archetypeTable.getOrCreate(w, destMask)
	a.addEdges.Put(uint32(id), dest)
	dest.removeEdges.Put(uint32(id), a)
	return dest
}

// edgeRemove returns (creating and caching if needed) the archetype reached
// by removing component id from a.
func (a *Archetype) edgeRemove(w *World, id ComponentID) *Archetype {
	if dest, ok := a.removeEdges.Get(uint32(id)); ok {
		return dest
	}
	destMask := a.mask.Without(uint32(id))
	dest := w.archetypeTable.getOrCreate(w, destMask)
	a.removeEdges.Put(uint32(id), dest)
	dest.addEdges.Put(uint32(id), a)
	return dest
}

func (a *Archetype) free() {
	for _, c := range a.chunks {
		c.free()
	}
	a.chunks = nil
}
