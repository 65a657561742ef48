// Package tracker counts cache and fetch outcomes per dataset. The counters
// feed the /api/stats endpoint.
package tracker

import "sync"

// DatasetStats holds the load counters for one dataset.
type DatasetStats struct {
	CacheHits     int64
	CacheMisses   int64
	FetchSuccess  int64
	FetchFailures int64
}

// HitRate returns the cache hit percentage, 0 before any lookup was counted.
func (s DatasetStats) HitRate() int64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return s.CacheHits * 100 / total
}

// Tracker accumulates DatasetStats per dataset name.
type Tracker struct {
	mu    sync.Mutex
	stats map[string]DatasetStats
}

// New creates a Tracker.
func New() *Tracker {
	return &Tracker{stats: make(map[string]DatasetStats)}
}

func (t *Tracker) bump(dataset string, f func(*DatasetStats)) {
	t.mu.Lock()
	s := t.stats[dataset]
	f(&s)
	t.stats[dataset] = s
	t.mu.Unlock()
}

// CacheHit counts a lookup served from the fresh cache.
func (t *Tracker) CacheHit(dataset string) {
	t.bump(dataset, func(s *DatasetStats) { s.CacheHits++ })
}

// CacheMiss counts a lookup that had to go upstream.
func (t *Tracker) CacheMiss(dataset string) {
	t.bump(dataset, func(s *DatasetStats) { s.CacheMisses++ })
}

// FetchOK counts a successful upstream fetch.
func (t *Tracker) FetchOK(dataset string) {
	t.bump(dataset, func(s *DatasetStats) { s.FetchSuccess++ })
}

// FetchError counts a failed upstream fetch or decode.
func (t *Tracker) FetchError(dataset string) {
	t.bump(dataset, func(s *DatasetStats) { s.FetchFailures++ })
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]DatasetStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make(map[string]DatasetStats, len(t.stats))
	for k, v := range t.stats {
		result[k] = v
	}
	return result
}
