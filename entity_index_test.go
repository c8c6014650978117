package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityIndexCreateGetExists(t *testing.T) {
	ix := newEntityIndex()

	e1, _ := ix.create()
	e2, _ := ix.create()
	assert.NotEqual(t, e1, e2)
	assert.True(t, ix.exists(e1))
	assert.True(t, ix.exists(e2))
	assert.Equal(t, 2, ix.count())

	rec := EntityRecord{ChunkIndex: 1, Row: 2}
	ix.setRecord(e1, rec)
	got, ok := ix.get(e1)
	assert.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestEntityIndexDeleteInvalidatesStaleID(t *testing.T) {
	ix := newEntityIndex()
	e1, _ := ix.create()

	ix.delete(e1)
	assert.False(t, ix.exists(e1), "a deleted id must no longer be live")
	assert.Equal(t, 0, ix.count())
}

func TestEntityIndexRecycleBumpsGeneration(t *testing.T) {
	ix := newEntityIndex()
	e1, _ := ix.create()
	ix.delete(e1)

	e2, _ := ix.create()
	assert.Equal(t, e1.Index(), e2.Index(), "a freed slot is reused")
	assert.NotEqual(t, e1.Generation(), e2.Generation(), "recycling must bump the generation")
	assert.False(t, ix.exists(e1), "the stale generation must stay dead even after the slot is reused")
	assert.True(t, ix.exists(e2))
}

func TestEntityIndexSwapRemoveFixesMovedSlot(t *testing.T) {
	ix := newEntityIndex()
	e1, _ := ix.create()
	e2, _ := ix.create()
	e3, _ := ix.create()

	ix.setRecord(e1, EntityRecord{Row: 1})
	ix.setRecord(e2, EntityRecord{Row: 2})
	ix.setRecord(e3, EntityRecord{Row: 3})

	// Deleting the middle entry moves e3 (the dense-array tail) into e2's
	// old dense slot; e3 must still resolve correctly afterward.
	ix.delete(e2)
	assert.False(t, ix.exists(e2))
	assert.True(t, ix.exists(e1))
	assert.True(t, ix.exists(e3))

	rec3, ok := ix.get(e3)
	assert.True(t, ok)
	assert.Equal(t, 3, rec3.Row)
}

func TestEntityIDPackUnpack(t *testing.T) {
	id := packEntityID(42, 7)
	assert.Equal(t, uint32(42), id.Index())
	assert.Equal(t, uint16(7), id.Generation())
}
