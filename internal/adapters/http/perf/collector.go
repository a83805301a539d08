// Package perf keeps a bounded in-memory history of request timings for the metrics endpoint.
package perf

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 4096

// Sample is one served request.
type Sample struct {
	Method   string
	Path     string
	Status   int
	Duration time.Duration
	At       time.Time
}

func (s Sample) route() string {
	return s.Method + " " + s.Path
}

// Collector is a fixed-size ring buffer of samples. When full, the oldest sample is overwritten.
// Aggregation happens only on read.
type Collector struct {
	mu      sync.Mutex
	samples []Sample
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding up to size samples.
// PRE: none
// POST: size <= 0 selects DefaultRingSize
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{samples: make([]Sample, size)}
}

// Record stores s, overwriting the oldest sample when the buffer is full.
func (c *Collector) Record(s Sample) {
	c.mu.Lock()
	c.samples[c.pos] = s
	c.pos = (c.pos + 1) % len(c.samples)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of samples ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// RouteStat aggregates timing for one method and path.
type RouteStat struct {
	Route  string  `json:"route"`
	Count  int     `json:"count"`
	AvgMs  float64 `json:"avg_ms"`
	MaxMs  float64 `json:"max_ms"`
	Errors int     `json:"errors"`
}

// Snapshot summarises the samples recorded since a point in time.
type Snapshot struct {
	TotalRecorded int64       `json:"total_recorded"`
	Window        int         `json:"window"`
	P50Ms         float64     `json:"p50_ms"`
	P95Ms         float64     `json:"p95_ms"`
	P99Ms         float64     `json:"p99_ms"`
	ErrorRate     float64     `json:"error_rate"`
	SlowestRoutes []RouteStat `json:"slowest_routes"`
}

// Snapshot computes percentiles and the topN slowest routes over samples at or after since.
// Responses with status >= 500 count as errors.
// PRE: topN >= 0
// POST: SlowestRoutes is sorted by average duration, slowest first
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.samples)
	c.mu.Unlock()

	var durations []float64
	var errors int
	stats := make(map[string]*RouteStat)
	for _, s := range buf {
		if s.At.IsZero() || s.At.Before(since) {
			continue
		}
		ms := float64(s.Duration.Microseconds()) / 1000
		durations = append(durations, ms)

		st, ok := stats[s.route()]
		if !ok {
			st = &RouteStat{Route: s.route()}
			stats[s.route()] = st
		}
		st.Count++
		st.AvgMs += ms
		st.MaxMs = max(st.MaxMs, ms)
		if s.Status >= 500 {
			st.Errors++
			errors++
		}
	}

	routes := make([]RouteStat, 0, len(stats))
	for _, st := range stats {
		st.AvgMs /= float64(st.Count)
		routes = append(routes, *st)
	}
	slices.SortFunc(routes, func(a, b RouteStat) int {
		switch {
		case a.AvgMs > b.AvgMs:
			return -1
		case a.AvgMs < b.AvgMs:
			return 1
		}
		return 0
	})
	if len(routes) > topN {
		routes = routes[:topN]
	}

	snap := Snapshot{
		TotalRecorded: c.TotalRecorded(),
		Window:        len(durations),
		SlowestRoutes: routes,
	}
	if len(durations) > 0 {
		slices.Sort(durations)
		snap.P50Ms = percentile(durations, 50)
		snap.P95Ms = percentile(durations, 95)
		snap.P99Ms = percentile(durations, 99)
		snap.ErrorRate = float64(errors) / float64(len(durations))
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(idx)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[lower+1]*frac
}
