// Package pipeline implements pipeline metrics.
package pipeline

import (
	"sync/atomic"
)

// Metrics contains per-pipeline counters.
type Metrics struct {
	Received   atomic.Uint64 // frames read from the source
	Classified atomic.Uint64 // classifiers successfully constructed
	Aborted    atomic.Uint64 // units aborted by a contract violation
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Reset resets all counters to zero.
func (m *Metrics) Reset() {
	m.Received.Store(0)
	m.Classified.Store(0)
	m.Aborted.Store(0)
}
