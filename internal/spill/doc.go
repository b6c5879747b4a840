// Package spill materializes non-mappable sources into temp files.
//
// Compressed files (.zst, .gz, .lz4) and remote blobs cannot be mapped in
// place. They are streamed through the matching decoder into a temp file
// created on an [fs.FileSystem], paced by the resource controller's IO
// limit, and the resulting path is mapped by the caller. The spill file
// belongs to the caller and must be removed with [File.Remove].
package spill
