package warehouse

import "github.com/holdfast-games/warehouse/internal/assert"

// Chunk is a fixed-capacity bucket of rows inside one archetype, per
// spec.md §3. entities is parallel to every column by row; rows
// [0, count) are live, [count, ChunkCapacity) are dead and never read.
type Chunk struct {
	entities [ChunkCapacity]EntityID
	columns  []column
	count    int
}

func newChunk(arch *Archetype) *Chunk {
	c := &Chunk{columns: make([]column, len(arch.dataComponents))}
	for i, info := range arch.dataComponents {
		c.columns[i] = newColumn(info.ID, info.Size, info.Provider, ChunkCapacity)
	}
	return c
}

func (c *Chunk) free() {
	for i := range c.columns {
		c.columns[i].free()
	}
}

// Count reports the number of live rows.
func (c *Chunk) Count() int { return c.count }

// Entities returns the live portion of the entity slice, row-indexed.
func (c *Chunk) Entities() []EntityID { return c.entities[:c.count] }

func (c *Chunk) hasRoom() bool { return c.count < ChunkCapacity }

// addRow writes e into the next free row, stamps every data column's ticks
// to tick, and returns the row index. Per spec.md §4.5 add_entity.
func (c *Chunk) addRow(e EntityID, tick Tick) int {
	assert.That(c.hasRoom(), "addRow called on a full chunk")
	row := c.count
	c.entities[row] = e
	for i := range c.columns {
		c.columns[i].stampNew(row, tick)
	}
	c.count++
	return row
}

// removeRow swaps row's contents with the last live row and shrinks count,
// per spec.md §4.5 remove_entity. It returns the id that used to be at the
// last row, so the caller can re-resolve and fix that entity's record (the
// id is EntityID(0) when row already was the last row — nothing moved).
func (c *Chunk) removeRow(row int) (moved EntityID) {
	assert.That(row >= 0 && row < c.count, "removeRow: row %d out of range [0,%d)", row, c.count)
	last := c.count - 1
	if row != last {
		moved = c.entities[last]
		c.entities[row] = c.entities[last]
		for i := range c.columns {
			c.columns[i].swapRemove(row, last)
		}
	}
	c.count--
	return moved
}

func (c *Chunk) columnFor(componentID ComponentID, dataIndex int) *column {
	return &c.columns[dataIndex]
}
