package shelf

import "github.com/hupe1980/shelf/storage"

// Map is a side table keyed by handles minted elsewhere. It stores T values
// under Ref[K] keys and never mints a handle itself, so S is typically a
// storage.HashMap or storage.BTreeMap.
//
//	names := shelf.New[Node](storage.NewVec[Node](0))
//	weights := shelf.NewMap[Node, float64](storage.NewHashMap[float64](0))
//	n := names.Insert(node)
//	weights.Insert(n, 0.5)
type Map[K, T any, S storage.Storage[T]] struct {
	storage S
}

// NewMap returns a Map that owns s.
func NewMap[K, T any, S storage.Storage[T]](s S) *Map[K, T, S] {
	return &Map[K, T, S]{storage: s}
}

func (m *Map[K, T, S]) Storage() S {
	return m.storage
}

func (m *Map[K, T, S]) Len() int {
	return m.storage.Len()
}

func (m *Map[K, T, S]) Get(key Ref[K]) (T, bool) {
	return m.storage.Get(key.index)
}

// GetMut requires storage.Mutable.
func (m *Map[K, T, S]) GetMut(key Ref[K]) (*T, bool) {
	mut, ok := any(m.storage).(storage.Mutable[T])
	if !ok {
		panic(unsupported[T]("GetMut", storage.CapMutable, m.storage))
	}
	return mut.GetMut(key.index)
}

// Insert stores value under key and returns the value it replaced, if any.
// Requires storage.Inserter.
func (m *Map[K, T, S]) Insert(key Ref[K], value T) (T, bool) {
	ins, ok := any(m.storage).(storage.Inserter[T])
	if !ok {
		panic(unsupported[T]("Insert", storage.CapInsert, m.storage))
	}
	return ins.Insert(key.index, value)
}

// InsertShared is Insert for callers on several goroutines. Requires
// storage.SharedInserter.
func (m *Map[K, T, S]) InsertShared(key Ref[K], value T) (T, bool) {
	ins, ok := any(m.storage).(storage.SharedInserter[T])
	if !ok {
		panic(unsupported[T]("InsertShared", storage.CapInsertShared, m.storage))
	}
	return ins.InsertShared(key.index, value)
}
