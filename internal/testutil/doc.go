// Package testutil provides seeded random workloads for shelf tests.
//
// # Value Generation
//
//	rng := testutil.NewRNG(seed)
//	words := rng.Words(1000, 50)  // 1000 draws from a 50-word vocabulary
//	ops := rng.Ops(500, 0.3)      // interleaved inserts and removals
//
// Draws from the vocabulary are Zipf-distributed, so a few words repeat
// often the way identifiers and tags do in real interning workloads.
package testutil
