package warehouse

import "github.com/holdfast-games/warehouse/internal/assert"

// TermKind names the role a component id plays in a Query, per spec.md
// §4.8.
type TermKind uint8

const (
	TermWith TermKind = iota
	TermWithout
	TermOptional
	TermChanged
	TermAdded
)

type queryTerm struct {
	kind      TermKind
	component ComponentID
}

// Query compiles a predicate over archetypes: a sequence of with/without/
// optional/changed/added terms, per spec.md §4.8. Term order never affects
// the result.
//
// Queries are built by a world (World.NewQuery) rather than constructed
// directly so Build can walk that world's archetype table.
type Query struct {
	world *World
	terms []queryTerm

	built         bool
	builtVersion  uint64
	matched       []*Archetype
	changedTerms  []ComponentID
	addedTerms    []ComponentID

	embedded QueryIterator
}

// NewQuery starts an empty query against w.
func (w *World) NewQuery() *Query {
	return &Query{world: w}
}

func (q *Query) addTerm(kind TermKind, ids ...ComponentID) *Query {
	for _, id := range ids {
		assert.That(len(q.terms) < MaxQueryTerms, "query exceeds max terms (%d)", MaxQueryTerms)
		q.terms = append(q.terms, queryTerm{kind: kind, component: id})
	}
	q.built = false
	return q
}

// With requires every listed component to be present.
func (q *Query) With(ids ...ComponentID) *Query { return q.addTerm(TermWith, ids...) }

// Without requires every listed component to be absent.
func (q *Query) Without(ids ...ComponentID) *Query { return q.addTerm(TermWithout, ids...) }

// Optional imposes no archetype-level constraint; it exists so callers can
// probe for a component's presence per-row during iteration without
// narrowing which archetypes match.
func (q *Query) Optional(ids ...ComponentID) *Query { return q.addTerm(TermOptional, ids...) }

// Changed requires the component be present at the archetype level; the
// per-row changed-tick filter is applied by the iterator (spec.md §4.7).
func (q *Query) Changed(ids ...ComponentID) *Query {
	q.changedTerms = append(q.changedTerms, ids...)
	return q.addTerm(TermChanged, ids...)
}

// Added is Changed's counterpart for added-tick filtering.
func (q *Query) Added(ids ...ComponentID) *Query {
	q.addedTerms = append(q.addedTerms, ids...)
	return q.addTerm(TermAdded, ids...)
}

// Build scans the archetype table once and keeps archetypes satisfying
// every with/changed/added term's presence and every without term's
// absence, per spec.md §4.8. Calling Build again with no structural change
// since the last build is a no-op: the cached match set is reused exactly
// (spec.md §8 "query_build, when called twice with no structural change in
// between, produces identical matched-archetype sets").
func (q *Query) Build() *Query {
	v := q.world.StructuralChangeVersion()
	if q.built && q.builtVersion == v {
		return q
	}

	var withMask, withoutMask Mask
	for _, t := range q.terms {
		switch t.kind {
		case TermWith, TermChanged, TermAdded:
			withMask.Mark(uint32(t.component))
		case TermWithout:
			withoutMask.Mark(uint32(t.component))
		case TermOptional:
			// no archetype-level constraint
		}
	}

	q.matched = q.matched[:0]
	for _, a := range q.world.archetypesByOrder {
		if !a.mask.ContainsAll(withMask) {
			continue
		}
		if a.mask.ContainsAny(withoutMask) {
			continue
		}
		q.matched = append(q.matched, a)
	}

	q.built = true
	q.builtVersion = v
	return q
}

// Matched returns the archetypes the most recent Build kept. Panics-free:
// returns nil if Build has never been called.
func (q *Query) Matched() []*Archetype { return q.matched }

// Iter builds (if needed) and returns a freshly allocated iterator — the
// ergonomic form spec.md §4.9 describes. Safe to call repeatedly; each
// call returns an independent iterator over the same matched set.
func (q *Query) Iter() *QueryIterator {
	q.Build()
	it := &QueryIterator{query: q}
	it.reset()
	return it
}

// IterCached builds (if needed) and returns the iterator embedded inside
// the query itself — the zero-allocation reuse form spec.md §4.9
// describes. Callers must finish one iteration pass before starting
// another; the embedded iterator's state is shared.
func (q *Query) IterCached() *QueryIterator {
	q.Build()
	q.embedded.query = q
	q.embedded.reset()
	return &q.embedded
}
