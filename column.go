package warehouse

// Tick is the world's monotonic per-frame counter, advanced once per
// World.Update call. Every data-component row carries an AddedTick (stamped
// when the component first appears on that entity) and a ChangedTick
// (stamped on every write), per spec.md §3/§4.7.
type Tick uint64

// column is one component's per-chunk storage: an opaque handle produced by
// a storage provider, plus the parallel tick arrays spec.md §3 describes.
type column struct {
	componentID  ComponentID
	size         int
	provider     StorageProvider
	storage      any
	native       bool // cached StorageProvider.Native(), read on every iterator step
	addedTicks   []Tick
	changedTicks []Tick
	maxChanged   Tick // chunk-level early-out per spec.md §4.7's closing note
}

func newColumn(componentID ComponentID, size int, provider StorageProvider, capacity int) column {
	return column{
		componentID:  componentID,
		size:         size,
		provider:     provider,
		storage:      provider.AllocChunk(size, capacity),
		native:       provider.Native(),
		addedTicks:   make([]Tick, capacity),
		changedTicks: make([]Tick, capacity),
	}
}

func (c *column) free() {
	c.provider.FreeChunk(c.storage)
	c.storage = nil
}

func (c *column) stampNew(row int, tick Tick) {
	c.addedTicks[row] = tick
	c.changedTicks[row] = tick
	if tick > c.maxChanged {
		c.maxChanged = tick
	}
}

func (c *column) stampChanged(row int, tick Tick) {
	c.changedTicks[row] = tick
	if tick > c.maxChanged {
		c.maxChanged = tick
	}
}

// swapRemove moves row last's bytes and ticks into row, used when a chunk's
// last live row replaces a removed row (spec.md §4.5).
func (c *column) swapRemove(row, last int) {
	if row == last {
		return
	}
	if sw, ok := c.provider.(swapper); ok {
		sw.Swap(c.storage, row, last, c.size)
	} else {
		genericSwap(c.provider, c.storage, row, last, c.size)
	}
	c.addedTicks[row] = c.addedTicks[last]
	c.changedTicks[row] = c.changedTicks[last]
}
