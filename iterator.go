package warehouse

import "unsafe"

// QueryIterator walks a built Query chunk-at-a-time, per spec.md §4.9:
// "one chunk at a time, not one entity at a time." Two forms share this
// type: Query.Iter allocates a fresh one; Query.IterCached hands back the
// one embedded in the query for zero-allocation reuse. Semantics are
// identical either way.
type QueryIterator struct {
	query *Query

	archetypeCursor int
	chunkCursor     int

	currentArchetype *Archetype
	currentChunk     *Chunk

	startVersion uint64
}

func (it *QueryIterator) reset() {
	it.archetypeCursor = 0
	it.chunkCursor = -1
	it.currentArchetype = nil
	it.currentChunk = nil
	it.startVersion = it.query.world.StructuralChangeVersion()
}

// Next advances to the next non-empty chunk and reports whether one was
// found, per spec.md §4.9's next() algorithm. It panics if the world
// structurally changed since iteration began — per spec.md §5, "a caller
// must not structurally mutate the world while holding a live iterator";
// this is Design Notes option (a), detect via structural_change_version
// and fail loudly, rather than silently reading stale chunk pointers.
func (it *QueryIterator) Next() bool {
	if it.query.world.StructuralChangeVersion() != it.startVersion {
		panic("warehouse: query iterator used after a structural mutation; route changes through BeginDeferred/EndDeferred")
	}

	matched := it.query.matched
	for {
		it.chunkCursor++
		if it.currentArchetype == nil || it.chunkCursor >= len(it.currentArchetype.chunks) {
			if it.currentArchetype != nil {
				it.archetypeCursor++
			}
			if it.archetypeCursor >= len(matched) {
				return false
			}
			it.currentArchetype = matched[it.archetypeCursor]
			it.chunkCursor = 0
			if it.chunkCursor >= len(it.currentArchetype.chunks) {
				it.chunkCursor = -1 // force re-entry into the outer branch next loop
				continue
			}
		}
		c := it.currentArchetype.chunks[it.chunkCursor]
		if c.count == 0 {
			continue
		}
		it.currentChunk = c
		return true
	}
}

// Count returns the current chunk's live row count.
func (it *QueryIterator) Count() int { return it.currentChunk.count }

// Entities returns the current chunk's live entity ids, row-indexed.
func (it *QueryIterator) Entities() []EntityID { return it.currentChunk.Entities() }

// Archetype returns the archetype the current chunk belongs to.
func (it *QueryIterator) Archetype() *Archetype { return it.currentArchetype }

func (it *QueryIterator) column(c ComponentID) (*column, bool) {
	colIdx, ok := it.currentArchetype.dataColumnIndex(c)
	if !ok {
		return nil, false
	}
	return it.currentChunk.columnFor(c, colIdx), true
}

// ColumnPtr returns the current chunk's base pointer for component c and
// its element size, or (nil, 0) if c isn't a data component of the current
// archetype. Valid for native storage; see StorageProviderFor for the
// general path.
func (it *QueryIterator) ColumnPtr(c ComponentID) (unsafe.Pointer, int) {
	col, ok := it.column(c)
	if !ok || !col.native {
		return nil, 0
	}
	return col.provider.GetPtr(col.storage, 0, col.size), col.size
}

// RowPtr returns a pointer to row row's bytes for component c through its
// provider, whether or not the column is native — the general, row-by-row
// path spec.md §4.9 describes for non-native storage.
func (it *QueryIterator) RowPtr(c ComponentID, row int) unsafe.Pointer {
	col, ok := it.column(c)
	if !ok {
		return nil
	}
	return col.provider.GetPtr(col.storage, row, col.size)
}

// IsNative reports whether component c's column in the current archetype
// can be addressed as a contiguous typed slice.
func (it *QueryIterator) IsNative(c ComponentID) bool {
	col, ok := it.column(c)
	return ok && col.native
}

// ChangedTicks returns the current chunk's per-row changed ticks for c.
func (it *QueryIterator) ChangedTicks(c ComponentID) []Tick {
	col, ok := it.column(c)
	if !ok {
		return nil
	}
	return col.changedTicks[:it.currentChunk.count]
}

// AddedTicks returns the current chunk's per-row added ticks for c.
func (it *QueryIterator) AddedTicks(c ComponentID) []Tick {
	col, ok := it.column(c)
	if !ok {
		return nil
	}
	return col.addedTicks[:it.currentChunk.count]
}

// StorageProviderFor returns the provider and opaque chunk storage handle
// backing component c in the current chunk, for callers that must go
// through the provider vtable instead of a typed slice (spec.md §4.9's
// storage_provider/chunk_storage_data accessors).
func (it *QueryIterator) StorageProviderFor(c ComponentID) (StorageProvider, any) {
	col, ok := it.column(c)
	if !ok {
		return nil, nil
	}
	return col.provider, col.storage
}

// RowChanged reports whether row's changed tick for component c falls in
// (lastRunTick, thisRunTick], per spec.md §4.7: "An entity matches changed
// iff its tick is strictly newer than last_run_tick and no newer than
// this_run_tick." A chunk-level early-out (maxChanged) skips the per-row
// check entirely when nothing in the chunk changed within the window.
func (it *QueryIterator) RowChanged(c ComponentID, row int, lastRunTick, thisRunTick Tick) bool {
	col, ok := it.column(c)
	if !ok || col.maxChanged <= lastRunTick {
		return false
	}
	t := col.changedTicks[row]
	return t > lastRunTick && t <= thisRunTick
}

// RowAdded is RowChanged's counterpart over added ticks.
func (it *QueryIterator) RowAdded(c ComponentID, row int, lastRunTick, thisRunTick Tick) bool {
	col, ok := it.column(c)
	if !ok {
		return false
	}
	t := col.addedTicks[row]
	return t > lastRunTick && t <= thisRunTick
}
