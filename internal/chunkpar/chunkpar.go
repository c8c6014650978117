// Package chunkpar is an example external parallel driver over a built
// query, demonstrating the chunk-disjointness contract spec.md §5
// describes: distinct chunks never share rows, so read-only (or
// column-disjoint) work on separate chunks can run concurrently without
// locking the world itself.
//
// This is deliberately built on nothing but the standard library's
// sync.WaitGroup. The core's own non-goal of internal parallelism rules
// out reaching for a scheduling library here — the point of this package
// is only to show how an embedding application shards a query, not to add
// a second concurrency model to the engine. It is never imported by the
// warehouse package itself.
package chunkpar

import (
	"runtime"
	"sync"

	"github.com/holdfast-games/warehouse"
)

// Each fans fn out across a built query's matched chunks, using up to
// GOMAXPROCS worker goroutines. fn receives one *warehouse.Chunk at a time
// and its owning archetype; it must not call anything that structurally
// mutates the world (Set/Unset/DeleteEntity/CreateEntity) — the same
// restriction spec.md §5 places on any live iterator, since Each walks the
// same matched-archetype snapshot a *QueryIterator would.
//
// Each blocks until every chunk has been visited.
func Each(q *warehouse.Query, fn func(a *warehouse.Archetype, c *warehouse.Chunk)) {
	q.Build()
	matched := q.Matched()

	type job struct {
		a *warehouse.Archetype
		c *warehouse.Chunk
	}
	var jobs []job
	for _, a := range matched {
		for _, c := range a.Chunks() {
			if c.Count() == 0 {
				continue
			}
			jobs = append(jobs, job{a: a, c: c})
		}
	}
	if len(jobs) == 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var next int
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				mu.Lock()
				if next >= len(jobs) {
					mu.Unlock()
					return
				}
				j := jobs[next]
				next++
				mu.Unlock()

				fn(j.a, j.c)
			}
		}()
	}
	wg.Wait()
}
