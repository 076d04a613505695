package testutil

import (
	"math"
	"math/rand"
	"strconv"
	"sync"
)

// RNG is a seeded random source. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Zipf returns a value in [0, n) with P(k) proportional to 1/(k+1)^s.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked samples by inverse transform; caller must hold the lock.
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

// Word returns the k-th vocabulary word.
func Word(k int) string {
	return "w" + strconv.Itoa(k)
}

// Words returns n Zipf-distributed draws from a vocabulary of the given
// size. The result contains duplicates whenever n > 1 and vocabulary is
// small.
func (r *RNG) Words(n, vocabulary int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	words := make([]string, n)
	for i := range words {
		words[i] = Word(r.zipfLocked(vocabulary, 1.1))
	}
	return words
}

// Ints returns n uniform draws from [0, limit).
func (r *RNG) Ints(n, limit int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, n)
	for i := range out {
		out[i] = r.rand.Intn(limit)
	}
	return out
}

// OpKind is the kind of a generated operation.
type OpKind int

const (
	OpInsert OpKind = iota
	OpRemove
)

func (k OpKind) String() string {
	if k == OpRemove {
		return "remove"
	}
	return "insert"
}

// Op is one step of a generated workload.
type Op struct {
	Kind  OpKind
	Value string
}

// Ops returns n operations over a 32-word vocabulary, each a removal with
// probability removeRate.
func (r *RNG) Ops(n int, removeRate float64) []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]Op, n)
	for i := range ops {
		kind := OpInsert
		if r.rand.Float64() < removeRate {
			kind = OpRemove
		}
		ops[i] = Op{Kind: kind, Value: Word(r.zipfLocked(32, 1.1))}
	}
	return ops
}
