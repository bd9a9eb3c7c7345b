// Package testutil provides testing utilities for lvqgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random number generator and generators for labeled
// synthetic data sets.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vec := make([]float32, 8)
//	rng.FillUniform(vec)      // uniform [0, 1)
//
// # Labeled Data
//
//	data := rng.Blobs(3, 50, 2, 0.1)         // 3 classes, 50 entries each
//	data := rng.SkewedBlobs(3, 200, 2, 0.1, 1.2) // Zipf distributed class sizes
//	rng.DropComponents(data, 0.05)           // mark 5% of the components missing
package testutil
