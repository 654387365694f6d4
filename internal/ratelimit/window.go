// Package ratelimit implements a sliding-time-window hit counter used for
// admission control. It has no relation to task scheduling: the request
// boundary consults it before any task is created.
package ratelimit

import (
	"sync"
	"time"
)

// WindowCounter counts hits per key inside a trailing time window.
// Hits older than the TTL are pruned lazily on each access, and a key
// whose hits have all expired is removed entirely, so memory stays
// bounded to active keys. Safe for concurrent use.
type WindowCounter struct {
	ttl  time.Duration
	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewWindowCounter creates a counter with the given window width.
func NewWindowCounter(ttl time.Duration) *WindowCounter {
	return &WindowCounter{
		ttl:  ttl,
		hits: make(map[string][]time.Time),
	}
}

// Add records a hit for key at now and returns the number of hits still
// inside the window, including the new one.
func (c *WindowCounter) Add(key string, now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits[key] = append(c.hits[key], now)
	return c.pruneLocked(key, now)
}

// AddNow records a hit for key at the current wall-clock time.
func (c *WindowCounter) AddNow(key string) int {
	return c.Add(key, time.Now())
}

// Count returns the number of hits for key still inside the window,
// without recording a new hit.
func (c *WindowCounter) Count(key string, now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pruneLocked(key, now)
}

// Len returns the number of keys with live entries. Primarily useful for
// introspection and tests.
func (c *WindowCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.hits)
}

// pruneLocked drops entries older than now-ttl for key and returns the
// remaining count. Entries are stored oldest first, so pruning is a prefix
// trim. Keys left empty are deleted. Caller must hold c.mu.
func (c *WindowCounter) pruneLocked(key string, now time.Time) int {
	entries, ok := c.hits[key]
	if !ok {
		return 0
	}

	cutoff := now.Add(-c.ttl)
	i := 0
	for i < len(entries) && entries[i].Before(cutoff) {
		i++
	}

	if i == len(entries) {
		delete(c.hits, key)
		return 0
	}

	if i > 0 {
		entries = append(entries[:0], entries[i:]...)
	}
	c.hits[key] = entries
	return len(entries)
}
