// Package search finds every occurrence of a byte pattern in a large,
// immutable byte slice.
//
// The input is cut into strides that are scanned in parallel; each stride
// reads len(pattern)-1 bytes past its end so occurrences straddling a
// boundary are found exactly once, by the stride they start in. Every start
// position is reported, overlapping occurrences included, in ascending order.
//
// Case-insensitive matching folds ASCII letters only. When the resource
// controller grants the memory, a stride is lower-cased into a scratch
// buffer and searched with bytes.Index; otherwise a buffer-free matcher is
// used.
package search
