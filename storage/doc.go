// Package storage defines the capability interfaces a backing container can
// implement and provides backends for common containers.
//
// # Capabilities
//
// Each capability is a separate interface. A backend implements the subset
// its container supports natively; nothing forces a dense array to pretend
// it can remove, or a map to pretend it can pick fresh indices.
//
//	Storage          Get, Len, Cap, IsEmpty
//	Mutable          GetMut, Clear
//	Allocator        Allocate (exclusive caller)
//	SharedAllocator  AllocateShared (safe for concurrent callers)
//	Setter           Set at an already allocated index
//	Inserter         Insert at an arbitrary index
//	SharedInserter   InsertShared (safe for concurrent callers)
//	Remover          Remove
//	Iterable         All
//	MutIterable      AllMut
//	Drainer          Drain
//
// # Backends
//
//	Vec       dense slice; Allocate appends, no removal
//	HashMap   Go map keyed by index; caller-chosen indices
//	BTreeMap  ordered map keyed by index; ascending iteration
//	Slab      slot recycler; freed indices are reused by Allocate
//	Paged     concurrent paged array; the only SharedAllocator and SharedInserter
//
// Apart from Paged, backends are not safe for concurrent use.
package storage
