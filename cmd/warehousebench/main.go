// Command warehousebench profiles iteration throughput over a synthetic
// Position/Velocity workload, in the style of edwinsyarief-lazyecs's
// profile/entities harness: spawn a batch of entities, run a query over
// them for a number of iterations, record a pprof profile of the whole
// run.
//
// Usage:
//
//	go build ./cmd/warehousebench
//	./warehousebench
//	go tool pprof -http=":8000" ./warehousebench cpu.pprof
package main

import (
	"flag"
	"fmt"

	"github.com/pkg/profile"

	"github.com/holdfast-games/warehouse"
)

type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }

func main() {
	mode := flag.String("profile", "cpu", "profile kind: cpu, mem, or none")
	entities := flag.Int("entities", 50_000, "number of entities to spawn")
	iters := flag.Int("iters", 200, "number of movement iterations")
	flag.Parse()

	switch *mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "none":
	default:
		fmt.Printf("unknown -profile %q, using cpu\n", *mode)
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	run(*entities, *iters)
}

func run(numEntities, iters int) {
	w := warehouse.NewWorld(warehouse.DefaultConfig())
	pos := warehouse.RegisterComponent[Position](w, "Position")
	vel := warehouse.RegisterComponent[Velocity](w, "Velocity")

	for i := 0; i < numEntities; i++ {
		e := w.CreateEntity()
		pos.Set(w, e, Position{X: float64(i), Y: 0})
		vel.Set(w, e, Velocity{X: 1, Y: 1})
	}

	q := w.NewQuery().With(pos.ID(), vel.ID())

	for n := 0; n < iters; n++ {
		it := q.IterCached()
		for it.Next() {
			positions := pos.Column(it)
			velocities := vel.Column(it)
			for row := range positions {
				positions[row].X += velocities[row].X
				positions[row].Y += velocities[row].Y
			}
		}
		w.Update()
	}

	fmt.Printf("ran %d iterations over %d entities, final tick %d\n", iters, numEntities, w.Tick())
}
