/*
Package warehouse is an archetype-based Entity-Component-System storage
engine for games and simulations.

Warehouse keeps entities that share an identical set of component types
packed together in column-oriented chunks, so iterating over a query is a
sequential scan over a handful of contiguous byte slices rather than a
pointer-chasing walk. Adding or removing a component moves the entity to a
different archetype; the archetype graph caches that transition so repeated
transitions are a map lookup, not a fresh archetype search.

Core concepts:

  - Entity: a generation-checked id naming a row in some archetype's chunk.
  - Component: a named, sized (or zero-sized "tag") payload registered once
    with the world and referenced thereafter by a small integer id.
  - Archetype: the storage for every entity with exactly one component set.
  - Query: a compiled list of archetypes matching a set of with/without/
    optional/changed/added terms, walked chunk-at-a-time by an iterator.

Basic usage:

	world := warehouse.NewWorld(warehouse.DefaultConfig())

	position := warehouse.RegisterComponent[Position](world, "Position")
	velocity := warehouse.RegisterComponent[Velocity](world, "Velocity")

	e := world.CreateEntity()
	position.Set(world, e, Position{X: 1})
	velocity.Set(world, e, Velocity{X: 10})

	q := world.NewQuery().With(position.ID(), velocity.ID())
	it := q.Iter()
	for it.Next() {
		positions := position.Column(it)
		velocities := velocity.Column(it)
		for row := range it.Count() {
			positions[row].X += velocities[row].X
		}
	}

Warehouse has no internal concurrency: a world is driven synchronously by
one caller, and the chunk-at-a-time iterator shape exists so that an
external scheduler can shard a matched set of chunks across worker threads
without the core needing to know about goroutines at all.
*/
package warehouse
