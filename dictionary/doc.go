// Package dictionary provides value-interning tables on top of shelf.Shelf.
//
// A dictionary stores each distinct value once and hands out the same
// shelf.Ref for every insertion of an equal value:
//
//	d := dictionary.NewHashDictionary[string](storage.NewSlab[string](0))
//	a := d.Insert("a")
//	d.Insert("b")
//	d.Insert("a") == a // true, Len is still 2
//
// Four variants cover two independent choices:
//
//	                 exclusive insert       concurrent insert
//	hash index       HashDictionary         HashConstDictionary
//	ordered index    BTreeDictionary        BTreeConstDictionary
//
// Hash variants need comparable values. B-tree variants need a three-way
// comparison (cmp.Compare for ordered types, or any func passed to a *Func
// constructor) and add ordered traversal: Ascend, Descend, Keys, Range, Min
// and Max.
//
// Const variants may be shared between goroutines. Their backend must
// implement storage.SharedAllocator with goroutine-safe Get, which
// storage.Paged does.
//
// Every variant keeps its reverse index and its arena in step: a value is
// either present on both sides under the same index or absent from both.
// Stored values are therefore never handed out mutably. Removal needs a
// backend that implements storage.Remover, such as storage.Slab.
package dictionary
