// Package shelf stores values in a pluggable backend and names them with
// small typed handles instead of pointers.
//
// A Ref[T] is an integer index tagged with the type of value it names. It is
// comparable, orderable and free to copy; it owns nothing and remembers
// nothing about where it came from. A Shelf[T, S] owns one backend S and
// turns handles into values:
//
//	sh := shelf.New[string](storage.NewSlab[string](0))
//	r := sh.Insert("hello")
//	v, ok := sh.Get(r) // "hello", true
//	sh.Remove(r)
//	_, ok = sh.Get(r)  // false
//
// # Backends
//
// The storage package defines one small interface per capability (allocate,
// set, insert, remove, iterate, ...) and several backends that implement the
// subsets their containers support. A Shelf method that needs a capability
// the backend lacks panics with an *UnsupportedError; Shelf.Capabilities
// reports what is available.
//
// # Interning
//
// The dictionary package builds value-interning tables on top of a Shelf:
// inserting an equal value twice returns the same handle and stores the value
// once.
//
// # Hazards
//
// Handles are not checked against the Shelf that minted them, and a slot
// freed by a recycling backend such as storage.Slab is handed out again by
// the next insert. A stale handle then silently names the new occupant.
package shelf
