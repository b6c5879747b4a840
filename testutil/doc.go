// Package testutil provides testing utilities for lfpreview.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random text corpora and brute-force
// ground truth for line indexing and search.
//
// # Random Corpora
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Bytes(500, []byte("abAB\n"))
//	logs := rng.LogLines(10000)
//
// # Ground Truth
//
//	starts := testutil.LineStarts(data)
//	offsets := testutil.FindAll(data, []byte("ab"), 0, true)
package testutil
