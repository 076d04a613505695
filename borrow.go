package shelf

import "github.com/hupe1980/shelf/storage"

// Viewer is implemented by stored values that can lend out a narrower U.
type Viewer[U any] interface {
	View() U
}

// MutViewer is implemented by stored values that can lend out a mutable U
// living inside them.
type MutViewer[U any] interface {
	ViewMut() *U
}

// Borrow redeems r against sh and projects the stored value to U. The
// projection is the value itself when T is U (or T is an interface value
// whose dynamic type is U), otherwise its View when it implements
// Viewer[U]. The result is absent when the slot is empty or neither
// projection applies.
func Borrow[U, T any, S storage.Storage[T]](sh *Shelf[T, S], r Ref[U]) (U, bool) {
	var zero U
	v, ok := sh.storage.Get(r.index)
	if !ok {
		return zero, false
	}
	switch x := any(v).(type) {
	case U:
		return x, true
	case Viewer[U]:
		return x.View(), true
	}
	return zero, false
}

// BorrowMut is Borrow for in-place access. The backend must implement
// storage.Mutable. The projection is the stored value's address when T is
// U, or ViewMut when *T implements MutViewer[U].
func BorrowMut[U, T any, S storage.Storage[T]](sh *Shelf[T, S], r Ref[U]) (*U, bool) {
	p, ok := sh.mutable("BorrowMut").GetMut(r.index)
	if !ok {
		return nil, false
	}
	switch x := any(p).(type) {
	case *U:
		return x, true
	case MutViewer[U]:
		return x.ViewMut(), true
	}
	return nil, false
}
