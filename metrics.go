package lfpreview

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordOpen is called after each open. bytes is the mapped size.
	RecordOpen(bytes int64, duration time.Duration, err error)

	// RecordClose is called after each handle close.
	RecordClose(err error)

	// RecordRead is called after each line read with the number of lines returned.
	RecordRead(lines int, duration time.Duration, err error)

	// RecordSearch is called after each search with the number of bytes
	// scanned and occurrences found.
	RecordSearch(scanned, matches int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(int64, time.Duration, error)          {}
func (NoopMetricsCollector) RecordClose(error)                               {}
func (NoopMetricsCollector) RecordRead(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordSearch(int64, int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount        atomic.Int64
	OpenErrors       atomic.Int64
	OpenBytes        atomic.Int64
	CloseCount       atomic.Int64
	CloseErrors      atomic.Int64
	ReadCount        atomic.Int64
	ReadErrors       atomic.Int64
	ReadLines        atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchBytes      atomic.Int64
	SearchMatches    atomic.Int64
	SearchTotalNanos atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(bytes int64, _ time.Duration, err error) {
	b.OpenCount.Add(1)
	if err != nil {
		b.OpenErrors.Add(1)
		return
	}
	b.OpenBytes.Add(bytes)
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose(err error) {
	b.CloseCount.Add(1)
	if err != nil {
		b.CloseErrors.Add(1)
	}
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(lines int, _ time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadLines.Add(int64(lines))
	if err != nil {
		b.ReadErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(scanned, matches int64, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
		return
	}
	b.SearchBytes.Add(scanned)
	b.SearchMatches.Add(matches)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:      b.OpenCount.Load(),
		OpenErrors:     b.OpenErrors.Load(),
		OpenBytes:      b.OpenBytes.Load(),
		CloseCount:     b.CloseCount.Load(),
		CloseErrors:    b.CloseErrors.Load(),
		ReadCount:      b.ReadCount.Load(),
		ReadErrors:     b.ReadErrors.Load(),
		ReadLines:      b.ReadLines.Load(),
		SearchCount:    b.SearchCount.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchBytes:    b.SearchBytes.Load(),
		SearchMatches:  b.SearchMatches.Load(),
		SearchAvgNanos: b.getAvgSearchNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount      int64
	OpenErrors     int64
	OpenBytes      int64
	CloseCount     int64
	CloseErrors    int64
	ReadCount      int64
	ReadErrors     int64
	ReadLines      int64
	SearchCount    int64
	SearchErrors   int64
	SearchBytes    int64
	SearchMatches  int64
	SearchAvgNanos int64
}
