package lfpreview

// Op identifies an engine operation.
type Op int

const (
	OpOpenFile Op = iota
	OpCloseFile
	OpGetFileSize
	OpGetTotalLines
	OpReadLines
	OpMmapSearch
)

func (op Op) String() string {
	switch op {
	case OpOpenFile:
		return "open_file"
	case OpCloseFile:
		return "close_file"
	case OpGetFileSize:
		return "get_file_size"
	case OpGetTotalLines:
		return "get_total_lines"
	case OpReadLines:
		return "read_lines"
	case OpMmapSearch:
		return "mmap_search"
	default:
		return "unknown"
	}
}
