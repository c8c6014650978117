package warehouse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holdfast-games/warehouse"
)

func TestIteratorPanicsOnStructuralMutationMidIteration(t *testing.T) {
	w := newTestWorld(t)
	position := warehouse.RegisterComponent[Position](w, "Position")
	velocity := warehouse.RegisterComponent[Velocity](w, "Velocity")

	e1 := w.CreateEntity()
	position.Set(w, e1, Position{})
	e2 := w.CreateEntity()
	position.Set(w, e2, Position{})

	q := w.NewQuery().With(position.ID())
	it := q.Iter()
	require.True(t, it.Next())

	velocity.Set(w, e2, Velocity{}) // structural mutation: moves e2's archetype

	assert.Panics(t, func() {
		it.Next()
	}, "a live iterator must panic once the world has structurally changed under it")
}

func TestIteratorPanicsOnDeleteFromAlreadyExistingArchetype(t *testing.T) {
	w := newTestWorld(t)
	position := warehouse.RegisterComponent[Position](w, "Position")
	velocity := warehouse.RegisterComponent[Velocity](w, "Velocity")

	// e1 ends up in the {Position} archetype; e2 ends up in {Position,
	// Velocity}. Both archetypes already exist by the time iteration
	// starts below — no archetype is newly created during the delete this
	// test performs, unlike TestIteratorPanicsOnStructuralMutationMidIteration.
	e1 := w.CreateEntity()
	position.Set(w, e1, Position{})
	e2 := w.CreateEntity()
	position.Set(w, e2, Position{})
	velocity.Set(w, e2, Velocity{})

	q := w.NewQuery().With(position.ID())
	it := q.Iter()
	require.True(t, it.Next())

	w.DeleteEntity(e1) // removeEntity on a pre-existing archetype, no new archetype created

	assert.Panics(t, func() {
		it.Next()
	}, "deleting an entity from an already-existing archetype must still bump structural_change_version")
}

func TestDeferredRegionSuppressesReentrancyPanic(t *testing.T) {
	w := newTestWorld(t)
	position := warehouse.RegisterComponent[Position](w, "Position")
	velocity := warehouse.RegisterComponent[Velocity](w, "Velocity")

	e1 := w.CreateEntity()
	position.Set(w, e1, Position{})
	e2 := w.CreateEntity()
	position.Set(w, e2, Position{})

	q := w.NewQuery().With(position.ID())
	it := q.Iter()

	w.BeginDeferred()
	for it.Next() {
		for _, e := range it.Entities() {
			velocity.Set(w, e, Velocity{X: 1})
		}
	}
	w.EndDeferred()

	assert.True(t, velocity.Has(w, e1))
	assert.True(t, velocity.Has(w, e2))
}

func TestIteratorSpansMultipleChunks(t *testing.T) {
	w := newTestWorld(t)
	position := warehouse.RegisterComponent[Position](w, "Position")

	n := warehouse.ChunkCapacity*2 + 37
	ids := make([]warehouse.EntityID, 0, n)
	for i := 0; i < n; i++ {
		e := w.CreateEntity()
		position.Set(w, e, Position{X: float64(i)})
		ids = append(ids, e)
	}

	q := w.NewQuery().With(position.ID())
	it := q.Iter()
	count := 0
	chunks := 0
	for it.Next() {
		chunks++
		count += it.Count()
	}
	assert.Equal(t, n, count)
	assert.GreaterOrEqual(t, chunks, 3, "more than 2*ChunkCapacity entities must span at least 3 chunks")
}

func TestComponentColumnMatchesRowAt(t *testing.T) {
	w := newTestWorld(t)
	position := warehouse.RegisterComponent[Position](w, "Position")
	e := w.CreateEntity()
	position.Set(w, e, Position{X: 5, Y: 6})

	q := w.NewQuery().With(position.ID())
	it := q.Iter()
	require.True(t, it.Next())

	col := position.Column(it)
	require.Len(t, col, 1)
	row := position.RowAt(it, 0)
	assert.Equal(t, col[0], *row)
}
