package warehouse

// slotState tracks an archetypeTable slot across insertion and removal.
// Open addressing needs tombstones: clearing a slot to "empty" on removal
// would break the probe chain for every later key that hashed to the same
// start, so a removed slot is marked deleted instead and skipped (but not
// stopped on) by later probes.
type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotDeleted
)

type tableSlot struct {
	state slotState
	hash  archetypeHash
	arch  *Archetype
}

// archetypeTable is the open-addressed, linear-probed hash map of
// archetypes keyed by component-set hash described in spec.md §4.4: "The
// archetype table is an open-addressed hash map keyed by this hash with
// linear probing; load factor kept under 0.7 by doubling rehash."
type archetypeTable struct {
	slots []tableSlot
	count int // occupied, excludes tombstones
}

func newArchetypeTable() *archetypeTable {
	return &archetypeTable{slots: make([]tableSlot, initialArchetypeTableSize)}
}

// get returns the archetype with this exact mask, if present. Two masks
// may collide on the fold-hash; slots are disambiguated by comparing the
// full mask, not just the hash.
func (t *archetypeTable) get(mask Mask) (*Archetype, bool) {
	h := archetypeHash(mask.hash())
	n := len(t.slots)
	start := int(uint64(h) % uint64(n))
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		s := &t.slots[idx]
		switch s.state {
		case slotEmpty:
			return nil, false
		case slotOccupied:
			if s.hash == h && s.arch.mask == mask {
				return s.arch, true
			}
		}
	}
	return nil, false
}

// getOrCreate returns the archetype for mask, building one if absent.
// Creation follows spec.md §4.4: sort/partition components (done by
// buildComponentInfos, which walks the registry in id order), build the
// two per-archetype maps, leave chunks empty, insert into the table, and
// bump the world's structural_change_version.
func (t *archetypeTable) getOrCreate(w *World, mask Mask) *Archetype {
	if a, ok := t.get(mask); ok {
		return a
	}
	components := buildComponentInfos(w, mask)
	a := newArchetype(w, mask, components)
	t.insert(a)
	w.structuralChangeVersion++
	w.archetypesByOrder = append(w.archetypesByOrder, a)
	return a
}

func (t *archetypeTable) insert(a *Archetype) {
	if float64(t.count+1)/float64(len(t.slots)) > archetypeTableMaxLoad {
		t.grow()
	}
	h := a.id
	n := len(t.slots)
	start := int(uint64(h) % uint64(n))
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		s := &t.slots[idx]
		if s.state != slotOccupied {
			*s = tableSlot{state: slotOccupied, hash: h, arch: a}
			t.count++
			return
		}
	}
	panic("warehouse: archetype table probe exhausted after load-factor check")
}

func (t *archetypeTable) grow() {
	old := t.slots
	t.slots = make([]tableSlot, len(old)*2)
	t.count = 0
	for _, s := range old {
		if s.state == slotOccupied {
			t.insert(s.arch)
		}
	}
}

// remove clears the table's slot for a, leaving a tombstone behind so later
// probes for colliding keys keep working. Used only by
// World.RemoveEmptyArchetypes.
func (t *archetypeTable) remove(a *Archetype) {
	h := a.id
	n := len(t.slots)
	start := int(uint64(h) % uint64(n))
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		s := &t.slots[idx]
		switch s.state {
		case slotEmpty:
			return
		case slotOccupied:
			if s.arch == a {
				s.state = slotDeleted
				s.arch = nil
				t.count--
				return
			}
		}
	}
}

// buildComponentInfos walks the registry in id order (already ascending,
// since ids are assigned sequentially) and keeps the ones mask selects —
// spec.md §4.4 step 1-2: "Sort the component ids. Partition into data
// components ... and tags."
func buildComponentInfos(w *World, mask Mask) []ComponentInfo {
	var infos []ComponentInfo
	for _, e := range w.registry.entries {
		if !mask.Has(uint32(e.ID)) {
			continue
		}
		infos = append(infos, ComponentInfo{ID: e.ID, Size: e.Size, Provider: e.Provider})
	}
	return infos
}
