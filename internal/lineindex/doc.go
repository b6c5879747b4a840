// Package lineindex maintains an incrementally discovered table of line-start
// byte offsets over an immutable byte slice.
//
// The index is a prefix of the full line table. It grows only forward, driven
// by callers that need a particular line or offset resolved; bytes are scanned
// at most once for the lifetime of an Index. Extension is serialized by a
// mutex while lookups of already discovered entries read an atomically
// published snapshot and never block.
//
// Line numbers are zero-based. A line ends at a single '\n' byte; '\r' is
// ordinary data. A trailing line without a terminator still counts, and an
// empty input has zero lines.
package lineindex
