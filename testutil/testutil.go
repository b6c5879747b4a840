package testutil

import (
	"bytes"
	"fmt"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63n returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63n(n)
}

// Bytes returns n bytes drawn uniformly from alphabet.
// Locks only once per call (preferred over calling Intn in a loop).
func (r *RNG) Bytes(n int, alphabet []byte) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return out
}

var (
	levels   = []string{"DEBUG", "INFO", "INFO", "INFO", "WARN", "ERROR"}
	messages = []string{
		"request served",
		"cache miss for key",
		"retrying upstream call",
		"connection reset by peer",
		"disk usage above threshold",
		"über-long unicode payload ✓",
	}
)

// LogLines returns n newline-terminated log-like lines with skewed lengths.
func (r *RNG) LogLines(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b bytes.Buffer
	for i := range n {
		fmt.Fprintf(&b, "2024-01-01T00:%02d:%02dZ %s %s",
			(i/60)%60, i%60,
			levels[r.rand.Intn(len(levels))],
			messages[r.rand.Intn(len(messages))],
		)
		// Zipf-like tail: most lines are short, a few are very long.
		if r.rand.Intn(100) == 0 {
			b.Write(bytes.Repeat([]byte{'.'}, 1+r.rand.Intn(4096)))
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// LineStarts computes the full line-start table by brute force. Only '\n'
// terminates a line; a trailing line without terminator is included.
func LineStarts(data []byte) []int64 {
	if len(data) == 0 {
		return nil
	}
	starts := []int64{0}
	for i, b := range data {
		if b == '\n' && i+1 < len(data) {
			starts = append(starts, int64(i+1))
		}
	}
	return starts
}

// FindAll reports every occurrence start of needle in hay at or after from,
// overlapping ones included. fold compares ASCII letters case-insensitively.
func FindAll(hay, needle []byte, from int, fold bool) []int64 {
	var out []int64
	if fold {
		hay = asciiLower(hay)
		needle = asciiLower(needle)
	}
	for i := from; i+len(needle) <= len(hay); i++ {
		if bytes.Equal(hay[i:i+len(needle)], needle) {
			out = append(out, int64(i))
		}
	}
	return out
}

func asciiLower(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}
