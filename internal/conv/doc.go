// Package conv provides safe integer type conversion utilities.
//
// File sizes and byte rates arrive as int64 while slice lengths and limiter
// bursts are int. On 32-bit platforms the two differ, so conversions at
// those boundaries are bounds checked here.
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead.
package conv
