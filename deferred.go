package warehouse

import "unsafe"

// opKind names one recorded deferred operation.
type opKind uint8

const (
	opSet opKind = iota
	opUnset
	opDelete
)

type deferredOp struct {
	kind      opKind
	entity    EntityID
	component ComponentID
	bytes     []byte
}

// CommandBuffer is the boundary contract spec.md §6 describes for
// begin_deferred/end_deferred: "an external command buffer ... records
// operations and replays them inside end_deferred using the same entry
// points." Recording copies the caller's bytes into an owned buffer
// (rather than keeping the pointer) since the caller's memory isn't
// guaranteed to live until replay.
//
// Grounded on the teacher's operation_queue.go (EntityOperation/Apply
// replayed once a storage's locks drop to zero) and plus3-ooftn's
// commands.go (Commands.Flush), generalized to spec.md's exact
// Set/Unset/Delete surface.
type CommandBuffer struct {
	ops []deferredOp
}

func newCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

func (b *CommandBuffer) recordSet(e EntityID, c ComponentID, bytes unsafe.Pointer, size int) {
	var owned []byte
	if size > 0 {
		owned = make([]byte, size)
		copy(owned, unsafe.Slice((*byte)(bytes), size))
	}
	b.ops = append(b.ops, deferredOp{kind: opSet, entity: e, component: c, bytes: owned})
}

func (b *CommandBuffer) recordUnset(e EntityID, c ComponentID) {
	b.ops = append(b.ops, deferredOp{kind: opUnset, entity: e, component: c})
}

func (b *CommandBuffer) recordDelete(e EntityID) {
	b.ops = append(b.ops, deferredOp{kind: opDelete, entity: e})
}

// replay applies every recorded operation, in record order, directly
// against w (w.deferDepth is already back to 0 by the time this runs).
// Operations against an id that was deleted earlier in the same buffer
// fall through to the normal silent-no-op path in Set/Unset/DeleteEntity,
// per spec.md §7 — EntityID's generation check makes that automatic, so
// replay needs no separate staleness bookkeeping the way the teacher's
// Recycled()-comparison operations do.
func (b *CommandBuffer) replay(w *World) {
	ops := b.ops
	b.ops = nil
	for _, op := range ops {
		switch op.kind {
		case opSet:
			var ptr unsafe.Pointer
			if len(op.bytes) > 0 {
				ptr = unsafe.Pointer(&op.bytes[0])
			}
			w.Set(op.entity, op.component, ptr, len(op.bytes))
		case opUnset:
			w.Unset(op.entity, op.component)
		case opDelete:
			w.DeleteEntity(op.entity)
		}
	}
}
