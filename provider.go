package warehouse

import "unsafe"

// StorageProvider is the vtable for how one column's bytes are allocated
// and read/written, per spec.md §4.3. A provider is attached per component
// type, not per column: every chunk holding that component routes its
// column through the same provider, which is what lets a hosting
// application place one component's bytes inside its own managed memory
// (e.g. a pinned array visible to another runtime's GC) while every other
// component keeps using NativeProvider.
//
// Grounded on the teacher's storage-provider-shaped split between the
// warehouse package (which only knows Component/Entity/Archetype) and the
// external table package that actually owns column bytes — table.Accessor
// and table.ElementType play the "owns the bytes" role that StorageProvider
// plays here, generalized to a pluggable vtable per spec.md §4.3 and §9's
// "keep the provider trait free of allocator assumptions" design note.
type StorageProvider interface {
	// AllocChunk returns opaque storage holding capacity slots of size
	// bytes each.
	AllocChunk(size, capacity int) any
	// FreeChunk releases storage. Idempotent on nil.
	FreeChunk(storage any)
	// GetPtr returns a pointer to row row's bytes. Valid until the next
	// Alloc/Free call on the same storage.
	GetPtr(storage any, row int, size int) unsafe.Pointer
	// Set copies size bytes from src into row row.
	Set(storage any, row int, src unsafe.Pointer, size int)
	// Copy copies one row from src at srcRow to dst at dstRow. Both
	// storages hold the same component type and size.
	Copy(src any, srcRow int, dst any, dstRow int, size int)
	// Native reports whether GetPtr's result may be treated as the base of
	// a contiguous, directly addressable array — the fast path columns use
	// to hand callers a typed slice instead of a row-by-row accessor.
	Native() bool
	// Name is an advisory debug label.
	Name() string
}

// swapper is an optional capability a StorageProvider may implement to
// exchange two rows in place. Per spec.md §4.3 ("Optional; engine falls
// back to two copies via a scratch buffer when absent"), a provider that
// doesn't implement it gets genericSwap instead.
type swapper interface {
	Swap(storage any, a, b int, size int)
}

// NativeProvider is the default storage provider: each column is backed by
// a contiguous Go byte slice, and GetPtr returns base+row*size. This is the
// fast path spec.md §4.3 describes: "a fast-path flag on each column
// records 'this column is native', enabling the iterator to expose the raw
// base pointer ... for SIMD-friendly iteration."
type NativeProvider struct{}

type nativeChunkStorage struct {
	bytes []byte
}

// AllocChunk implements StorageProvider.
func (NativeProvider) AllocChunk(size, capacity int) any {
	return &nativeChunkStorage{bytes: make([]byte, size*capacity)}
}

// FreeChunk implements StorageProvider.
func (NativeProvider) FreeChunk(storage any) {
	if storage == nil {
		return
	}
	s := storage.(*nativeChunkStorage)
	s.bytes = nil
}

// GetPtr implements StorageProvider.
func (NativeProvider) GetPtr(storage any, row int, size int) unsafe.Pointer {
	s := storage.(*nativeChunkStorage)
	if size == 0 || len(s.bytes) == 0 {
		return nil
	}
	return unsafe.Pointer(&s.bytes[row*size])
}

// Set implements StorageProvider.
func (p NativeProvider) Set(storage any, row int, src unsafe.Pointer, size int) {
	if size == 0 {
		return
	}
	dst := p.GetPtr(storage, row, size)
	copyBytes(dst, src, size)
}

// Copy implements StorageProvider.
func (p NativeProvider) Copy(src any, srcRow int, dst any, dstRow int, size int) {
	if size == 0 {
		return
	}
	s := p.GetPtr(src, srcRow, size)
	d := p.GetPtr(dst, dstRow, size)
	copyBytes(d, s, size)
}

// Swap implements StorageProvider.
func (p NativeProvider) Swap(storage any, a, b int, size int) {
	if size == 0 || a == b {
		return
	}
	s := storage.(*nativeChunkStorage)
	pa := s.bytes[a*size : a*size+size]
	pb := s.bytes[b*size : b*size+size]
	var scratch [256]byte
	buf := scratch[:size]
	if size > len(scratch) {
		buf = make([]byte, size)
	}
	copy(buf, pa)
	copy(pa, pb)
	copy(pb, buf)
}

// Native implements StorageProvider.
func (NativeProvider) Native() bool { return true }

// Name implements StorageProvider.
func (NativeProvider) Name() string { return "native" }

func copyBytes(dst, src unsafe.Pointer, size int) {
	dstSlice := unsafe.Slice((*byte)(dst), size)
	srcSlice := unsafe.Slice((*byte)(src), size)
	copy(dstSlice, srcSlice)
}

// genericSwap implements StorageProvider.Swap in terms of Copy + GetPtr for
// any provider that doesn't override Swap, per spec.md §4.3: "Optional; the
// engine falls back to two copies via a scratch buffer when absent."
func genericSwap(p StorageProvider, storage any, a, b int, size int) {
	if a == b || size == 0 {
		return
	}
	var scratch [256]byte
	buf := scratch[:size]
	if size > len(scratch) {
		buf = make([]byte, size)
	}
	pa := p.GetPtr(storage, a, size)
	copy(buf, unsafe.Slice((*byte)(pa), size))

	p.Copy(storage, b, storage, a, size)

	pb := p.GetPtr(storage, b, size)
	copy(unsafe.Slice((*byte)(pb), size), buf)
}
