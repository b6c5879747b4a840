// Package session holds the per-handle state of an open file: its byte
// backing, its lazily built line index, and the operations that read lines
// or search through them. A Registry maps handle ids to sessions.
//
// Lines are zero-indexed. Only '\n' terminates a line; a '\r' before it is
// part of the line's content.
package session
