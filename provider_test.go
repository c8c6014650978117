package warehouse_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holdfast-games/warehouse"
)

// mapProvider is a minimal non-native StorageProvider, backing each chunk's
// column with a Go map keyed by row instead of a contiguous byte slice —
// enough to exercise the general GetPtr/Set/Copy path the iterator falls
// back to when a column isn't native (spec.md §4.3/§4.9).
type mapProvider struct{}

type mapChunkStorage struct {
	rows map[int][]byte
}

func (mapProvider) AllocChunk(size, capacity int) any {
	return &mapChunkStorage{rows: make(map[int][]byte)}
}

func (mapProvider) FreeChunk(storage any) {
	s := storage.(*mapChunkStorage)
	s.rows = nil
}

func (mapProvider) GetPtr(storage any, row int, size int) unsafe.Pointer {
	s := storage.(*mapChunkStorage)
	buf, ok := s.rows[row]
	if !ok {
		buf = make([]byte, size)
		s.rows[row] = buf
	}
	return unsafe.Pointer(&buf[0])
}

func (p mapProvider) Set(storage any, row int, src unsafe.Pointer, size int) {
	dst := p.GetPtr(storage, row, size)
	copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
}

func (p mapProvider) Copy(src any, srcRow int, dst any, dstRow int, size int) {
	s := p.GetPtr(src, srcRow, size)
	d := p.GetPtr(dst, dstRow, size)
	copy(unsafe.Slice((*byte)(d), size), unsafe.Slice((*byte)(s), size))
}

func (mapProvider) Native() bool { return false }
func (mapProvider) Name() string { return "map" }

func TestNonNativeProviderRoundTripsThroughRowPtr(t *testing.T) {
	w := newTestWorld(t)
	position := warehouse.RegisterComponentWithProvider[Position](w, "Position", mapProvider{})
	e := w.CreateEntity()
	position.Set(w, e, Position{X: 7, Y: 8})

	q := w.NewQuery().With(position.ID())
	it := q.Iter()
	require.True(t, it.Next())

	assert.False(t, it.IsNative(position.ID()))
	assert.Nil(t, position.Column(it), "Column must return nil for a non-native column")

	row := position.RowAt(it, 0)
	require.NotNil(t, row)
	assert.Equal(t, Position{X: 7, Y: 8}, *row)
}

func TestNonNativeProviderSwapFallsBackWithoutSwapMethod(t *testing.T) {
	w := newTestWorld(t)
	position := warehouse.RegisterComponentWithProvider[Position](w, "Position", mapProvider{})

	e1 := w.CreateEntity()
	position.Set(w, e1, Position{X: 1})
	e2 := w.CreateEntity()
	position.Set(w, e2, Position{X: 2})
	e3 := w.CreateEntity()
	position.Set(w, e3, Position{X: 3})

	w.DeleteEntity(e1) // forces a swap-remove through genericSwap (mapProvider has no Swap)

	assert.True(t, w.EntityExists(e2))
	assert.True(t, w.EntityExists(e3))
	p2 := position.Get(w, e2)
	p3 := position.Get(w, e3)
	require.NotNil(t, p2)
	require.NotNil(t, p3)
	assert.Equal(t, float64(2), p2.X)
	assert.Equal(t, float64(3), p3.X)
}
