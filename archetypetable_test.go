package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchetypeTableGetOrCreateReturnsSameArchetypeForSameMask(t *testing.T) {
	w := NewWorld(DefaultConfig())
	id := w.RegisterComponent("X", 8, nil)

	var m Mask
	m.Mark(uint32(id))

	a1 := w.archetypeTable.getOrCreate(w, m)
	a2 := w.archetypeTable.getOrCreate(w, m)
	assert.Same(t, a1, a2)
}

func TestArchetypeTableDistinguishesDistinctMasks(t *testing.T) {
	tbl := newArchetypeTable()
	w := NewWorld(DefaultConfig())

	var m1, m2 Mask
	m1.Mark(1)
	m2.Mark(2)
	require.NotEqual(t, m1, m2)

	a1 := newArchetype(w, m1, nil)
	a2 := newArchetype(w, m2, nil)
	tbl.insert(a1)
	tbl.insert(a2)

	got1, ok1 := tbl.get(m1)
	got2, ok2 := tbl.get(m2)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Same(t, a1, got1)
	assert.Same(t, a2, got2)
}

func TestArchetypeTableGrowsPastLoadFactor(t *testing.T) {
	tbl := newArchetypeTable()
	w := NewWorld(DefaultConfig())

	initialSize := len(tbl.slots)
	n := int(float64(initialSize)*archetypeTableMaxLoad) + 2
	for i := 0; i < n; i++ {
		var m Mask
		m.Mark(uint32(i + 1))
		a := newArchetype(w, m, nil)
		tbl.insert(a)
	}

	assert.Greater(t, len(tbl.slots), initialSize, "exceeding the load factor must trigger a grow")
	for i := 0; i < n; i++ {
		var m Mask
		m.Mark(uint32(i + 1))
		_, ok := tbl.get(m)
		assert.True(t, ok, "every inserted archetype must still be found after a rehash")
	}
}

func TestArchetypeTableRemoveLeavesTombstoneProbeable(t *testing.T) {
	tbl := newArchetypeTable()
	w := NewWorld(DefaultConfig())

	var m1, m2 Mask
	m1.Mark(1)
	m2.Mark(2)
	a1 := newArchetype(w, m1, nil)
	a2 := newArchetype(w, m2, nil)
	tbl.insert(a1)
	tbl.insert(a2)

	tbl.remove(a1)
	_, ok := tbl.get(m1)
	assert.False(t, ok)

	got2, ok2 := tbl.get(m2)
	require.True(t, ok2, "removing one archetype must not break the probe chain for another")
	assert.Same(t, a2, got2)
}
