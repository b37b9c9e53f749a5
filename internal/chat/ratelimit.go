package chat

import (
	"sync"

	"github.com/finsight-ai/stockchat-client/internal/model"
)

// RateLimitMonitor holds the most recently reported usage counters. It is
// purely informational: the backend is authoritative on limits, and the
// client never throttles sends based on it.
type RateLimitMonitor struct {
	mu       sync.RWMutex
	snapshot model.RateLimitSnapshot
	received bool
}

// NewRateLimitMonitor creates an empty monitor.
func NewRateLimitMonitor() *RateLimitMonitor {
	return &RateLimitMonitor{}
}

// Update replaces the stored snapshot wholesale. Fields from earlier
// snapshots are never merged in.
func (m *RateLimitMonitor) Update(snapshot model.RateLimitSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snapshot
	m.received = true
}

// Current returns the latest snapshot, or false if none was ever received.
func (m *RateLimitMonitor) Current() (model.RateLimitSnapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot, m.received
}
