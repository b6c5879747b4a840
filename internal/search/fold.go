package search

import "bytes"

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func toUpper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func lowerASCII(b []byte) []byte {
	return lowerInto(make([]byte, len(b)), b)
}

func lowerInto(dst, src []byte) []byte {
	for i, c := range src {
		dst[i] = toLower(c)
	}
	return dst
}

// equalFoldASCII reports whether a equals the already lower-cased b under
// ASCII case folding.
func equalFoldASCII(a, lower []byte) bool {
	if len(a) != len(lower) {
		return false
	}
	for i := range a {
		if toLower(a[i]) != lower[i] {
			return false
		}
	}
	return true
}

// indexAllFold is the buffer-free variant of indexAll. needle must be
// lower-cased. Candidates are located by the first byte in either case.
func indexAllFold(hay, needle []byte, limit int, emit func(int)) {
	lo, up := needle[0], toUpper(needle[0])
	nextLo, nextUp := -1, -1
	if lo == up {
		nextUp = len(hay) // never a candidate
	}

	pos := 0
	for pos < limit && pos+len(needle) <= len(hay) {
		if nextLo < pos {
			nextLo = indexFrom(hay, lo, pos)
		}
		if nextUp < pos {
			nextUp = indexFrom(hay, up, pos)
		}
		c := min(nextLo, nextUp)
		if c >= limit || c+len(needle) > len(hay) {
			return
		}
		if equalFoldASCII(hay[c:c+len(needle)], needle) {
			emit(c)
		}
		pos = c + 1
	}
}

// indexFold returns the first position of the lower-cased needle in hay, or -1.
func indexFold(hay, needle []byte) int {
	lo, up := needle[0], toUpper(needle[0])
	for pos := 0; pos+len(needle) <= len(hay); {
		c := indexFrom(hay, lo, pos)
		if up != lo {
			c = min(c, indexFrom(hay, up, pos))
		}
		if c+len(needle) > len(hay) {
			return -1
		}
		if equalFoldASCII(hay[c:c+len(needle)], needle) {
			return c
		}
		pos = c + 1
	}
	return -1
}

// indexFrom returns the index of c in b at or after from, or len(b).
func indexFrom(b []byte, c byte, from int) int {
	i := bytes.IndexByte(b[from:], c)
	if i < 0 {
		return len(b)
	}
	return from + i
}
