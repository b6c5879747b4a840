package search

import (
	"bytes"
	"context"
	"testing"

	"github.com/hupe1980/lfpreview/resource"
	"github.com/hupe1980/lfpreview/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stride(n int) func(o *Options) {
	return func(o *Options) { o.Stride = n }
}

func TestScan_Literal(t *testing.T) {
	data := []byte("a\nbb\nccc")

	res, err := Scan(t.Context(), data, 0, []byte("c"))
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6, 7}, res.Offsets)
	assert.Equal(t, int64(3), res.Count)
	assert.Equal(t, int64(8), res.Scanned)
	assert.False(t, res.Truncated())
}

func TestScan_Overlapping(t *testing.T) {
	res, err := Scan(t.Context(), []byte("aaaa"), 0, []byte("aa"), stride(1))
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2}, res.Offsets)
}

func TestScan_EmptyPattern(t *testing.T) {
	_, err := Scan(t.Context(), []byte("abc"), 0, nil)
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestScan_NoMatch(t *testing.T) {
	res, err := Scan(t.Context(), []byte("abc"), 0, []byte("zz"))
	require.NoError(t, err)
	assert.Empty(t, res.Offsets)
	assert.Zero(t, res.Count)

	res, err = Scan(t.Context(), []byte("abc"), 10, []byte("a"))
	require.NoError(t, err)
	assert.Zero(t, res.Count)

	res, err = Scan(t.Context(), nil, 0, []byte("a"))
	require.NoError(t, err)
	assert.Zero(t, res.Count)
}

func TestScan_From(t *testing.T) {
	res, err := Scan(t.Context(), []byte("xaxaxa"), 2, []byte("xa"))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, res.Offsets)
	assert.Equal(t, int64(4), res.Scanned)
}

func TestScan_IgnoreCase(t *testing.T) {
	data := []byte("Error error ERROR eRrOr 3rror")

	for _, limit := range []int64{0, 16} {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: limit})
		res, err := Scan(t.Context(), data, 0, []byte("ERRor"), func(o *Options) {
			o.IgnoreCase = true
			o.Stride = 8
			o.Controller = rc
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{0, 6, 12, 18}, res.Offsets, "memory limit %d", limit)
		assert.Zero(t, rc.MemoryUsage(), "scratch memory is released")
	}
}

func TestScan_IgnoreCaseFallbackReportsNoScratch(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1})
	res, err := Scan(t.Context(), []byte("ABab"), 0, []byte("ab"), func(o *Options) {
		o.IgnoreCase = true
		o.Controller = rc
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2}, res.Offsets)
	assert.Zero(t, res.ExtraAlloc)

	res, err = Scan(t.Context(), []byte("ABab"), 0, []byte("ab"), func(o *Options) {
		o.IgnoreCase = true
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.ExtraAlloc)
}

func TestScan_Limit(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 100)
	res, err := Scan(t.Context(), data, 0, []byte("x"), func(o *Options) {
		o.Limit = 10
		o.Stride = 7
	})
	require.NoError(t, err)
	assert.Len(t, res.Offsets, 10)
	assert.Equal(t, int64(100), res.Count)
	assert.True(t, res.Truncated())
	for i, off := range res.Offsets {
		assert.Equal(t, int64(i), off)
	}
}

func TestScan_MatchesNaive(t *testing.T) {
	rng := testutil.NewRNG(4711)
	alphabet := []byte("abAB\n")

	for round := 0; round < 100; round++ {
		data := rng.Bytes(rng.Intn(500), alphabet)
		pattern := rng.Bytes(1+rng.Intn(4), alphabet)
		from := 0
		if len(data) > 0 {
			from = rng.Intn(len(data))
		}
		fold := rng.Intn(2) == 0

		res, err := Scan(t.Context(), data, int64(from), pattern, func(o *Options) {
			o.Stride = 1 + rng.Intn(32)
			o.IgnoreCase = fold
		})
		require.NoError(t, err)

		want := testutil.FindAll(data, pattern, from, fold)
		assert.Equal(t, len(want), len(res.Offsets), "round %d", round)
		if len(want) > 0 {
			assert.Equal(t, want, res.Offsets, "round %d", round)
		}
		assert.Equal(t, int64(len(want)), res.Count)
	}
}

func TestScan_CanceledBeforeAdmission(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxScanWorkers: 1})
	require.NoError(t, rc.AcquireScan(t.Context()))
	defer rc.ReleaseScan()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Scan(ctx, []byte("abc"), 0, []byte("b"), func(o *Options) { o.Controller = rc })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexAllFold(t *testing.T) {
	var got []int
	indexAllFold([]byte("1-1-1"), []byte("1-"), 5, func(i int) { got = append(got, i) })
	assert.Equal(t, []int{0, 2}, got)
}

func TestIndex(t *testing.T) {
	data := []byte("one\nTwo two\ntwo")

	assert.Equal(t, int64(8), Index(data, 0, []byte("two"), false))
	assert.Equal(t, int64(4), Index(data, 0, []byte("two"), true))
	assert.Equal(t, int64(12), Index(data, 9, []byte("TWO"), true))
	assert.Equal(t, int64(-1), Index(data, 13, []byte("two"), false))
	assert.Equal(t, int64(-1), Index(data, 0, []byte("three"), true))
	assert.Equal(t, int64(-1), Index(data, int64(len(data)), []byte("o"), false))
	assert.Equal(t, int64(-1), Index(data, 0, nil, false))
}

func TestIndex_MatchesScan(t *testing.T) {
	rng := testutil.NewRNG(99)
	alphabet := []byte("abAB\n")

	for round := 0; round < 100; round++ {
		data := rng.Bytes(1+rng.Intn(200), alphabet)
		pattern := rng.Bytes(1+rng.Intn(3), alphabet)
		from := rng.Intn(len(data))
		fold := rng.Intn(2) == 0

		want := testutil.FindAll(data, pattern, from, fold)
		got := Index(data, int64(from), pattern, fold)
		if len(want) == 0 {
			assert.Equal(t, int64(-1), got, "round %d", round)
		} else {
			assert.Equal(t, want[0], got, "round %d", round)
		}
	}
}

func BenchmarkScan(b *testing.B) {
	data := bytes.Repeat([]byte("2024-01-01T00:00:00Z INFO request served in 12ms\n"), 100000)
	for _, fold := range []bool{false, true} {
		name := "literal"
		if fold {
			name = "fold"
		}
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = Scan(context.Background(), data, 0, []byte("served"), func(o *Options) {
					o.IgnoreCase = fold
					o.Stride = 1 << 20
				})
			}
		})
	}
}
